package services

import (
	"fmt"
	"strings"

	"sportftv-backend/internal/navigation"
)

// ArenaSummary is one card on the arena list.
type ArenaSummary struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Address    string            `json:"address,omitempty"`
	ImageURL   string            `json:"imageUrl,omitempty"`
	CourtCount int               `json:"courtCount"`
	VideoCount int               `json:"videoCount"`
	Active     bool              `json:"active"`
	Next       navigation.Params `json:"next"`
}

// DateSummary is a calendar day that has at least one video.
type DateSummary struct {
	Date       string            `json:"date"`
	VideoCount int               `json:"videoCount"`
	Next       navigation.Params `json:"next"`
}

type DateListing struct {
	WindowStart string        `json:"windowStart"`
	WindowEnd   string        `json:"windowEnd"`
	Dates       []DateSummary `json:"dates"`
}

type QuadraSummary struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	VideoCount int               `json:"videoCount"`
	Active     bool              `json:"active"`
	Next       navigation.Params `json:"next"`
}

type HourSlot struct {
	Hour       int               `json:"hour"`
	Label      string            `json:"label"`
	Period     string            `json:"period"`
	VideoCount int               `json:"videoCount"`
	HasVideos  bool              `json:"hasVideos"`
	Next       navigation.Params `json:"next"`
}

const (
	PeriodMorning   = "morning"
	PeriodAfternoon = "afternoon"
	PeriodEvening   = "evening"

	firstSlotHour = 6
	lastSlotHour  = 23
)

func hourPeriod(hour int) string {
	switch {
	case hour < 12:
		return PeriodMorning
	case hour < 18:
		return PeriodAfternoon
	default:
		return PeriodEvening
	}
}

func hourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

func arenaFallbackName(id string) string {
	s := strings.Replace(id, "arena_", "", 1)
	s = strings.Replace(s, "_", " ", 1)
	return "Arena " + s
}

func quadraFallbackName(id string) string {
	s := strings.Replace(id, "quadra_", "", 1)
	s = strings.Replace(s, "quadra", "", 1)
	return "Quadra " + s
}
