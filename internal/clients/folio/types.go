package folio

import (
	"time"

	"github.com/bobmcallan/folio/internal/models"
	"github.com/shopspring/decimal"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// User is the public view of an account.
type User struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
	Provider  string `json:"provider"`
	Role      string `json:"role"`
}

// AuthResult is returned by the register, login and dev endpoints.
type AuthResult struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	User      User   `json:"user"`
}

// Investment is a valued holding as returned by the API.
type Investment struct {
	ID              string          `json:"id"`
	Symbol          string          `json:"symbol"`
	CompanyName     string          `json:"company_name"`
	Quantity        int64           `json:"quantity"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	PurchaseDate    string          `json:"purchase_date"`
	InvestedValue   decimal.Decimal `json:"invested_value"`
	CurrentValue    decimal.Decimal `json:"current_value"`
	GainLoss        decimal.Decimal `json:"gain_loss"`
	GainLossPercent float64         `json:"gain_loss_percent"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Holding is one row of the holdings table.
type Holding struct {
	Investment
	Weight float64 `json:"weight"`
}

// Summary is the portfolio dashboard.
type Summary struct {
	TotalInvested   decimal.Decimal       `json:"total_invested"`
	TotalValue      decimal.Decimal       `json:"total_value"`
	TotalGainLoss   decimal.Decimal       `json:"total_gain_loss"`
	GainLossPercent float64               `json:"gain_loss_percent"`
	TotalHoldings   int                   `json:"total_holdings"`
	Currency        string                `json:"currency"`
	Display         models.SummaryDisplay `json:"display"`
}
