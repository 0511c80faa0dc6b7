package domain

import "strings"

var statusTable = map[string]Status{
	"red":    StatusRed,
	"yellow": StatusYellow,
	"green":  StatusGreen,
	"low":    StatusRed,
	"medium": StatusYellow,
	"high":   StatusGreen,
	"0":      StatusRed,
	"1":      StatusYellow,
	"2":      StatusGreen,
}

// NormalizeStatus maps color names, severity words and legacy numeric codes
// onto a Status. Anything unrecognized is yellow.
func NormalizeStatus(raw string) Status {
	if s, ok := statusTable[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return StatusYellow
}

// legacyStatusFromID reads the old sheet layout where the ID column carried a
// 0/1/2 status code.
func legacyStatusFromID(raw string) (Status, bool) {
	switch strings.TrimSpace(raw) {
	case "0":
		return StatusRed, true
	case "1":
		return StatusYellow, true
	case "2":
		return StatusGreen, true
	default:
		return "", false
	}
}
