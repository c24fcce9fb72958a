package payment

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// X402Version is the protocol version sent to the facilitator and
// echoed in 402 replies.
const X402Version = 1

// usdcDecimals converts a currency amount to atomic token units.
const usdcDecimals = 6

// Config describes one deployment's payment settings. All three
// observed variants (free, hosted facilitator, chain-qualified network)
// are expressed here, never in code paths.
type Config struct {
	FacilitatorURL string
	Network        string // e.g. "base" or "eip155:8453"
	PayTo          string // payout address
	Asset          string // settlement asset contract address
	Token          string // credential used verbatim as a bearer token
	KeyName        string // name/secret pair: short-lived signed bearer
	KeySecret      string
	Routes         []RouteConfig
}

// RouteConfig prices one gated route.
type RouteConfig struct {
	Path        string
	Price       string // decimal currency string, e.g. "$0.001"
	Description string
}

// Requirement is the per-route payment requirement presented to payers
// and forwarded to the facilitator. Immutable after startup.
type Requirement struct {
	Scheme            string `json:"scheme"`
	Network           string `json:"network"`
	MaxAmountRequired string `json:"maxAmountRequired"` // atomic units
	Resource          string `json:"resource"`
	Description       string `json:"description"`
	MimeType          string `json:"mimeType"`
	PayTo             string `json:"payTo"`
	MaxTimeoutSeconds int    `json:"maxTimeoutSeconds"`
	Asset             string `json:"asset"`
}

// RequiredReply is the 402 body: the gate's own rejection protocol.
type RequiredReply struct {
	X402Version int           `json:"x402Version"`
	Error       string        `json:"error"`
	Accepts     []Requirement `json:"accepts"`
}

// NewRequirements builds the route -> requirement table, validating
// every configured price up front.
func NewRequirements(cfg Config) (map[string]Requirement, error) {
	requirements := make(map[string]Requirement, len(cfg.Routes))
	for _, route := range cfg.Routes {
		amount, err := atomicAmount(route.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price for %s: %w", route.Path, err)
		}
		requirements[route.Path] = Requirement{
			Scheme:            "exact",
			Network:           cfg.Network,
			MaxAmountRequired: amount,
			Resource:          route.Path,
			Description:       route.Description,
			MimeType:          "application/json",
			PayTo:             cfg.PayTo,
			MaxTimeoutSeconds: 60,
			Asset:             cfg.Asset,
		}
	}
	return requirements, nil
}

// atomicAmount converts a currency string like "$0.001" into atomic
// token units ("1000" for a 6-decimal asset).
func atomicAmount(price string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(price), "$")
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return "", err
	}
	if d.IsNegative() || d.IsZero() {
		return "", fmt.Errorf("price must be positive, got %q", price)
	}
	atomic := d.Shift(usdcDecimals)
	if !atomic.IsInteger() {
		return "", fmt.Errorf("price %q has more than %d decimal places", price, usdcDecimals)
	}
	return atomic.String(), nil
}
