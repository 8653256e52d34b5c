package models

import "strconv"

var connectionLabels = map[ConnectionType]string{
	ConnectionFibre:         "Fibre",
	ConnectionFixedWireless: "Fixed Wireless",
	ConnectionSatellite:     "Satellite",
	ConnectionADSL:          "ADSL",
	ConnectionVDSL:          "VDSL",
	ConnectionCable:         "Cable",
}

var contractLabels = map[Contract]string{
	ContractOpenTerm: "No Contract",
	Contract12Months: "12 Month Contract",
	Contract24Months: "24 Month Contract",
}

// ConnectionTypeLabel returns the display label for ct, or ct itself if unknown.
func ConnectionTypeLabel(ct ConnectionType) string {
	if l, ok := connectionLabels[ct]; ok {
		return l
	}
	return string(ct)
}

// ContractLabel returns the display label for c, or c itself if unknown.
func ContractLabel(c Contract) string {
	if l, ok := contractLabels[c]; ok {
		return l
	}
	return string(c)
}

// FormatSpeed renders a speed in Mbps, switching to Gbps at 1000.
func FormatSpeed(mbps int) string {
	if mbps >= 1000 {
		return strconv.FormatFloat(float64(mbps)/1000, 'f', -1, 64) + "Gbps"
	}
	return strconv.Itoa(mbps) + "Mbps"
}

// FormatPrice renders a price with a dollar sign and no trailing zeros.
func FormatPrice(price float64) string {
	return "$" + strconv.FormatFloat(price, 'f', -1, 64)
}

// FormatRating renders a rating with one decimal place.
func FormatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', 1, 64)
}
