package models

import "strings"

// ConnectionType is the physical access technology a plan is delivered over.
type ConnectionType string

const (
	ConnectionFibre         ConnectionType = "fibre"
	ConnectionFixedWireless ConnectionType = "fixed wireless"
	ConnectionSatellite     ConnectionType = "satellite"
	ConnectionADSL          ConnectionType = "adsl"
	ConnectionVDSL          ConnectionType = "vdsl"
	ConnectionCable         ConnectionType = "cable"
)

// Contract is the minimum term a customer signs up for.
type Contract string

const (
	ContractOpenTerm Contract = "open term"
	Contract12Months Contract = "12 months"
	Contract24Months Contract = "24 months"
)

// DataUnlimited is the data allowance sentinel for uncapped plans. Any other
// value is treated as a cap.
const DataUnlimited = "Unlimited"

// Plan is a single broadband plan from the static catalog.
type Plan struct {
	ID             int            `json:"id"`
	Provider       string         `json:"provider"`
	Name           string         `json:"name"`
	Price          float64        `json:"price"`
	SpeedDown      int            `json:"speed_down"`
	SpeedUp        int            `json:"speed_up"`
	Data           string         `json:"data"`
	ConnectionType ConnectionType `json:"connection_type"`
	Contract       Contract       `json:"contract"`
	SetupFee       float64        `json:"setup_fee"`
	ModemIncluded  bool           `json:"modem_included"`
	Perks          []string       `json:"perks"`
	Rating         float64        `json:"rating"`
	Availability   string         `json:"availability"`
	Badge          string         `json:"badge,omitempty"`
	PromoNote      string         `json:"promo_note,omitempty"`
}

// Unlimited reports whether the plan has no data cap.
func (p *Plan) Unlimited() bool {
	return p.Data == DataUnlimited
}

// HasTVBundle reports whether any perk mentions TV or IPTV (case-insensitive).
func (p *Plan) HasTVBundle() bool {
	for _, perk := range p.Perks {
		// "iptv" contains "tv", so one substring test covers both.
		if strings.Contains(strings.ToLower(perk), "tv") {
			return true
		}
	}
	return false
}

// ComparePlanItem is the summary row shown in the compare tray.
type ComparePlanItem struct {
	ID             int            `json:"id"`
	Name           string         `json:"name"`
	Provider       string         `json:"provider"`
	SpeedDown      int            `json:"speed_down"`
	SpeedUp        int            `json:"speed_up"`
	Data           string         `json:"data"`
	ConnectionType ConnectionType `json:"connection_type"`
	Price          float64        `json:"price"`
}

// CompareItem projects a plan into its compare tray summary.
func (p *Plan) CompareItem() ComparePlanItem {
	return ComparePlanItem{
		ID:             p.ID,
		Name:           p.Name,
		Provider:       p.Provider,
		SpeedDown:      p.SpeedDown,
		SpeedUp:        p.SpeedUp,
		Data:           p.Data,
		ConnectionType: p.ConnectionType,
		Price:          p.Price,
	}
}
