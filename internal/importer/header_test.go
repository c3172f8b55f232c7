package importer

import (
	"testing"

	"fleetops/domain/firstmile"

	"github.com/stretchr/testify/assert"
)

var templateHeader = []string{
	"Date", "Source Hub", "Destination", "Time", "Truck Type",
	"Shipment ID", "License Plate", "Driver Name", "Driver Phone",
}

func TestResolveHeadersTemplate(t *testing.T) {
	index := ResolveHeaders(templateHeader, DefaultHeaderRules)

	for i, field := range firstmile.Fields {
		col, ok := index.Column(field)
		assert.True(t, ok, "field %s", field)
		assert.Equal(t, i, col, "field %s", field)
	}
}

func TestResolveHeadersLooseAndShuffled(t *testing.T) {
	header := []string{
		"  DRIVER PHONE ", "เลขทะเบียน", "SOC", "Pickup Hub", "วันที่ส่ง", "เวลา", "", "Tracking No.",
	}
	index := ResolveHeaders(header, DefaultHeaderRules)

	want := map[firstmile.Field]int{
		firstmile.FieldDriverPhone:  0,
		firstmile.FieldLicensePlate: 1,
		firstmile.FieldDestination:  2,
		firstmile.FieldSourceHub:    3,
		firstmile.FieldDate:         4,
		firstmile.FieldTime:         5,
		firstmile.FieldShipmentID:   7,
	}
	for field, col := range want {
		got, ok := index.Column(field)
		assert.True(t, ok, "field %s", field)
		assert.Equal(t, col, got, "field %s", field)
	}

	_, ok := index.Column(firstmile.FieldPlateType)
	assert.False(t, ok)
	_, ok = index.Column(firstmile.FieldDriverName)
	assert.False(t, ok)
	assert.Equal(t, len(want), index.Len())
}

func TestResolveHeadersEveryTokenBinds(t *testing.T) {
	for _, rule := range DefaultHeaderRules {
		for _, token := range rule.Tokens {
			header := []string{"zzz", "My " + token + " column"}
			index := ResolveHeaders(header, []HeaderRule{rule})
			col, ok := index.Column(rule.Field)
			assert.True(t, ok, "token %q", token)
			assert.Equal(t, 1, col, "token %q", token)
		}
	}
}

func TestResolveHeadersFirstRegisteredFieldWins(t *testing.T) {
	// "Datetime" contains both "date" and "time"; date is declared first
	index := ResolveHeaders([]string{"Datetime", "Hub"}, DefaultHeaderRules)

	col, ok := index.Column(firstmile.FieldDate)
	assert.True(t, ok)
	assert.Equal(t, 0, col)
	_, ok = index.Column(firstmile.FieldTime)
	assert.False(t, ok, "time must not reuse the date column")
}

func TestResolveHeadersLaterFieldMovesRight(t *testing.T) {
	index := ResolveHeaders([]string{"Datetime", "Time slot"}, DefaultHeaderRules)

	col, _ := index.Column(firstmile.FieldDate)
	assert.Equal(t, 0, col)
	col, ok := index.Column(firstmile.FieldTime)
	assert.True(t, ok)
	assert.Equal(t, 1, col)
}

func TestResolveHeadersNoMatches(t *testing.T) {
	index := ResolveHeaders([]string{"foo", "bar"}, DefaultHeaderRules)
	assert.Equal(t, 0, index.Len())

	index = ResolveHeaders(nil, DefaultHeaderRules)
	assert.Equal(t, 0, index.Len())
}
