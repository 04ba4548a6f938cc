package services

import (
	"testing"

	"train-fare-sim/models"
)

func TestMergeByDepartureBackfill(t *testing.T) {
	tickets := []models.Ticket{
		{TrainNumber: "G101", FromStation: "Beijing", ToStation: "Shanghai",
			DepartureTime: "08:00", ArrivalTime: "12:30", Price: 100, SeatType: models.SeatSecond},
		{TrainNumber: "G101", FromStation: "Beijing", ToStation: "Shanghai",
			DepartureTime: "08:00", ArrivalTime: "12:30", Price: 180, SeatType: models.SeatFirst},
	}

	itins := MergeByDeparture(tickets)
	if len(itins) != 1 {
		t.Fatalf("got %d itineraries, want 1", len(itins))
	}

	prices := itins[0].Prices
	if len(prices) != len(models.SeatClasses) {
		t.Errorf("got %d classes, want %d", len(prices), len(models.SeatClasses))
	}
	// Known classes keep their listed price.
	if prices[models.SeatSecond] != 100 {
		t.Errorf("second = %v, want 100", prices[models.SeatSecond])
	}
	if prices[models.SeatFirst] != 180 {
		t.Errorf("first = %v, want 180 (listed, not back-filled)", prices[models.SeatFirst])
	}
	// Missing classes back-fill from the second-class anchor.
	if prices[models.SeatBusiness] != 350 {
		t.Errorf("business = %v, want 350", prices[models.SeatBusiness])
	}
	if prices[models.SeatHardSeat] != 80 {
		t.Errorf("hard_seat = %v, want 80", prices[models.SeatHardSeat])
	}
}

func TestMergeByDepartureAnchorPreference(t *testing.T) {
	// No second class: first class anchors the back-fill.
	tickets := []models.Ticket{
		{TrainNumber: "D202", FromStation: "A", ToStation: "B",
			DepartureTime: "09:00", ArrivalTime: "11:00", Price: 360, SeatType: models.SeatFirst},
	}

	itins := MergeByDeparture(tickets)
	if len(itins) != 1 {
		t.Fatalf("got %d itineraries, want 1", len(itins))
	}

	// 360 / 1.8 = 200 second-class equivalent.
	prices := itins[0].Prices
	if prices[models.SeatSecond] != 200 {
		t.Errorf("second = %v, want 200", prices[models.SeatSecond])
	}
	if prices[models.SeatBusiness] != 700 {
		t.Errorf("business = %v, want 700", prices[models.SeatBusiness])
	}
}

func TestMergeByDepartureDropsUnanchored(t *testing.T) {
	tickets := []models.Ticket{
		{TrainNumber: "K303", FromStation: "A", ToStation: "B",
			DepartureTime: "10:00", ArrivalTime: "20:00", Price: 90, SeatType: models.SeatHardSeat},
		{TrainNumber: "G404", FromStation: "A", ToStation: "B",
			DepartureTime: "11:00", ArrivalTime: "13:00", Price: 150, SeatType: models.SeatSecond},
	}

	itins := MergeByDeparture(tickets)
	if len(itins) != 1 {
		t.Fatalf("got %d itineraries, want 1 (unanchored group dropped)", len(itins))
	}
	if itins[0].TrainNumber != "G404" {
		t.Errorf("kept %s, want G404", itins[0].TrainNumber)
	}
}

func TestMergeByDepartureGroupingAndSort(t *testing.T) {
	tickets := []models.Ticket{
		{TrainNumber: "G2", FromStation: "A", ToStation: "B",
			DepartureTime: "14:00", ArrivalTime: "16:00", Price: 120, SeatType: models.SeatSecond},
		{TrainNumber: "G1", FromStation: "A", ToStation: "B",
			DepartureTime: "08:00", ArrivalTime: "10:00", Price: 100, SeatType: models.SeatSecond},
		// Same train number but a different departure stays a separate group.
		{TrainNumber: "G1", FromStation: "A", ToStation: "B",
			DepartureTime: "18:00", ArrivalTime: "20:00", Price: 100, SeatType: models.SeatSecond},
	}

	itins := MergeByDeparture(tickets)
	if len(itins) != 3 {
		t.Fatalf("got %d itineraries, want 3", len(itins))
	}
	for i := 1; i < len(itins); i++ {
		if TimeToMinutes(itins[i-1].DepartureTime) > TimeToMinutes(itins[i].DepartureTime) {
			t.Fatalf("itineraries not sorted by departure: %s after %s",
				itins[i].DepartureTime, itins[i-1].DepartureTime)
		}
	}
}

func TestApplyDiscountsDefaultTier(t *testing.T) {
	// An unloaded classifier resolves every train to tier 3.
	ts := NewTicketService(NewKMap())

	priced := ts.ApplyDiscounts([]models.Ticket{
		{TrainNumber: "G999", DepartureTime: "08:00", Price: 200, SeatType: models.SeatSecond},
	}, DateWorkday, 14)

	if len(priced) != 1 {
		t.Fatalf("got %d priced tickets, want 1", len(priced))
	}
	p := priced[0]
	if p.KValue != DefaultK {
		t.Errorf("KValue = %d, want %d", p.KValue, DefaultK)
	}
	// K3 workday low, 10+ days: 0.61.
	if p.DiscountRate != 0.61 {
		t.Errorf("DiscountRate = %v, want 0.61", p.DiscountRate)
	}
	if p.FinalPrice != 122 {
		t.Errorf("FinalPrice = %v, want 122", p.FinalPrice)
	}
	if p.OriginalPrice != 200 {
		t.Errorf("OriginalPrice = %v, want 200", p.OriginalPrice)
	}
}

func TestPriceItinerariesAppliesOneRatePerDeparture(t *testing.T) {
	ts := NewTicketService(NewKMap())

	itins := []models.MergedItinerary{{
		TrainNumber:   "G1",
		FromStation:   "A",
		ToStation:     "B",
		DepartureTime: "08:00",
		ArrivalTime:   "10:00",
		Prices: map[string]float64{
			models.SeatSecond: 100,
			models.SeatFirst:  180,
		},
	}}

	priced := ts.PriceItineraries(itins, DateWorkday, 14)
	if len(priced) != 1 {
		t.Fatalf("got %d priced itineraries, want 1", len(priced))
	}

	p := priced[0]
	if p.DiscountRate != 0.61 {
		t.Fatalf("DiscountRate = %v, want 0.61", p.DiscountRate)
	}
	if p.FinalPrices[models.SeatSecond] != 61 {
		t.Errorf("second final = %v, want 61", p.FinalPrices[models.SeatSecond])
	}
	if p.FinalPrices[models.SeatFirst] != 109.8 {
		t.Errorf("first final = %v, want 109.8", p.FinalPrices[models.SeatFirst])
	}
	// Original class map is untouched.
	if p.Prices[models.SeatSecond] != 100 {
		t.Errorf("original second = %v, want 100", p.Prices[models.SeatSecond])
	}
}

func TestPriceForClassPure(t *testing.T) {
	ts := NewTicketService(NewKMap())

	it := models.MergedItinerary{
		TrainNumber:   "G1",
		FromStation:   "A",
		ToStation:     "B",
		DepartureTime: "08:00",
		ArrivalTime:   "10:00",
		Prices:        map[string]float64{models.SeatSecond: 100},
	}

	first, err := ts.PriceForClass(it, models.SeatSecond, DateWorkday, 14)
	if err != nil {
		t.Fatalf("PriceForClass: %v", err)
	}
	second, err := ts.PriceForClass(it, models.SeatSecond, DateWorkday, 14)
	if err != nil {
		t.Fatalf("PriceForClass (repeat): %v", err)
	}

	if first.FinalPrice != second.FinalPrice || first.FinalPrice != 61 {
		t.Errorf("repeat pricing diverged: %v vs %v, want 61", first.FinalPrice, second.FinalPrice)
	}
	if it.Prices[models.SeatSecond] != 100 {
		t.Errorf("itinerary mutated: second = %v, want 100", it.Prices[models.SeatSecond])
	}

	if _, err := ts.PriceForClass(it, models.SeatBusiness, DateWorkday, 14); err == nil {
		t.Error("expected an error for a class the itinerary does not carry")
	}
}
