package services

import (
	"fmt"
	"sort"

	"train-fare-sim/models"
)

// Cross-class price ratios relative to second class, used to back-fill
// missing fare classes when merging rows of one physical departure.
var seatRatios = map[string]float64{
	models.SeatBusiness:    3.5,
	models.SeatFirst:       1.8,
	models.SeatSecond:      1.0,
	models.SeatSoftSleeper: 2.2,
	models.SeatHardSleeper: 1.5,
	models.SeatHardSeat:    0.8,
}

// Back-fill anchors in preference order. A departure with none of these
// classes cannot be priced and is dropped from merge output.
var anchorClasses = []string{models.SeatSecond, models.SeatFirst, models.SeatBusiness}

// TicketService applies the discount model to query results. The category
// classifier is injected so pricing stays pure and testable.
type TicketService struct {
	kmap *KMap
}

// NewTicketService creates a ticket pricing service
func NewTicketService(kmap *KMap) *TicketService {
	return &TicketService{kmap: kmap}
}

// ApplyDiscounts prices every ticket under the given date classification and
// booking lead time, resolving each train's tier through the classifier.
func (ts *TicketService) ApplyDiscounts(tickets []models.Ticket, dateType string, advanceDays int) []models.PricedTicket {
	priced := make([]models.PricedTicket, 0, len(tickets))
	for _, t := range tickets {
		k := ts.kmap.KFor(t.TrainNumber)
		res := Resolve(t.Price, PricingContext{
			DateType:      dateType,
			DepartureTime: t.DepartureTime,
			AdvanceDays:   advanceDays,
			KValue:        k,
		})
		priced = append(priced, models.PricedTicket{
			Ticket:        t,
			OriginalPrice: res.OriginalPrice,
			FinalPrice:    res.FinalPrice,
			DiscountRate:  res.Rate,
			DiscountInfo:  res.Info,
			KValue:        k,
			DateType:      dateType,
			TimePeriod:    res.TimePeriod,
		})
	}
	return priced
}

// PriceItineraries prices every class of every merged itinerary. The rate
// depends only on the departure, so one resolution covers the whole class map.
func (ts *TicketService) PriceItineraries(itins []models.MergedItinerary, dateType string, advanceDays int) []models.PricedItinerary {
	priced := make([]models.PricedItinerary, 0, len(itins))
	for _, it := range itins {
		k := ts.kmap.KFor(it.TrainNumber)
		res := Resolve(0, PricingContext{
			DateType:      dateType,
			DepartureTime: it.DepartureTime,
			AdvanceDays:   advanceDays,
			KValue:        k,
		})

		finals := make(map[string]float64, len(it.Prices))
		for class, price := range it.Prices {
			finals[class] = Round2(price * res.Rate)
		}

		priced = append(priced, models.PricedItinerary{
			MergedItinerary: it,
			FinalPrices:     finals,
			DiscountRate:    res.Rate,
			DiscountInfo:    res.Info,
			KValue:          k,
			DateType:        dateType,
			TimePeriod:      res.TimePeriod,
		})
	}
	return priced
}

// PriceForClass returns a fresh priced view of one itinerary for a chosen
// seat class. The itinerary itself is never mutated.
func (ts *TicketService) PriceForClass(it models.MergedItinerary, seatType, dateType string, advanceDays int) (*models.PricedTicket, error) {
	base, ok := it.Prices[seatType]
	if !ok {
		return nil, fmt.Errorf("itinerary %s has no %s fare", it.TrainNumber, seatType)
	}

	k := ts.kmap.KFor(it.TrainNumber)
	res := Resolve(base, PricingContext{
		DateType:      dateType,
		DepartureTime: it.DepartureTime,
		AdvanceDays:   advanceDays,
		KValue:        k,
	})

	return &models.PricedTicket{
		Ticket: models.Ticket{
			TrainNumber:   it.TrainNumber,
			FromStation:   it.FromStation,
			ToStation:     it.ToStation,
			DepartureTime: it.DepartureTime,
			ArrivalTime:   it.ArrivalTime,
			Price:         base,
			SeatType:      seatType,
		},
		OriginalPrice: res.OriginalPrice,
		FinalPrice:    res.FinalPrice,
		DiscountRate:  res.Rate,
		DiscountInfo:  res.Info,
		KValue:        k,
		DateType:      dateType,
		TimePeriod:    res.TimePeriod,
	}, nil
}

// MergeByDeparture collapses fare rows sharing one physical departure
// (train, route and times) into single itineraries carrying a price per
// seat class. Classes missing from the data are back-filled from an anchor
// class through the ratio table; departures with no anchor class at all are
// dropped. Output is sorted by departure time.
func MergeByDeparture(tickets []models.Ticket) []models.MergedItinerary {
	type groupKey struct {
		train, from, to, dep, arr string
	}

	groups := make(map[groupKey]map[string]float64)
	var order []groupKey
	for _, t := range tickets {
		key := groupKey{t.TrainNumber, t.FromStation, t.ToStation, t.DepartureTime, t.ArrivalTime}
		if _, ok := groups[key]; !ok {
			groups[key] = map[string]float64{}
			order = append(order, key)
		}
		groups[key][t.SeatType] = t.Price
	}

	var itins []models.MergedItinerary
	for _, key := range order {
		prices := groups[key]

		anchor := ""
		for _, class := range anchorClasses {
			if _, ok := prices[class]; ok {
				anchor = class
				break
			}
		}
		if anchor == "" {
			continue
		}

		// Back-fill every known class from the anchor's second-class
		// equivalent.
		secondEquivalent := prices[anchor] / seatRatios[anchor]
		full := make(map[string]float64, len(seatRatios))
		for class, ratio := range seatRatios {
			if price, ok := prices[class]; ok {
				full[class] = price
			} else {
				full[class] = Round2(secondEquivalent * ratio)
			}
		}

		itins = append(itins, models.MergedItinerary{
			TrainNumber:   key.train,
			FromStation:   key.from,
			ToStation:     key.to,
			DepartureTime: key.dep,
			ArrivalTime:   key.arr,
			Prices:        full,
		})
	}

	sort.SliceStable(itins, func(i, j int) bool {
		return TimeToMinutes(itins[i].DepartureTime) < TimeToMinutes(itins[j].DepartureTime)
	})
	return itins
}
