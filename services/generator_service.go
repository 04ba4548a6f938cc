package services

import (
	"fmt"
	"math/rand"

	"train-fare-sim/models"
)

// sampleStations is the fixed station list used for generated fare data.
var sampleStations = []string{
	"Beijing South", "Beijing West", "Beijing North",
	"Shanghai Hongqiao", "Shanghai", "Shanghai South",
	"Guangzhou South", "Shenzhen North", "Shenzhen",
	"Hangzhou East", "Hangzhou", "Hangzhou South",
	"Nanjing South", "Nanjing", "Nanjing West",
	"Wuhan", "Hankou", "Wuchang",
	"Chengdu East", "Chengdu South", "Chengdu",
	"Xian North", "Xian", "Xian South",
	"Chongqing North", "Chongqing West", "Chongqing",
	"Tianjin", "Tianjin South", "Tianjin West",
	"Jinan West", "Jinan", "Jinan East",
	"Zhengzhou East", "Zhengzhou", "Zhengzhou West",
	"Changsha South", "Changsha", "Changsha West",
	"Nanchang", "Nanchang West", "Nanchang East",
	"Fuzhou", "Fuzhou South", "Fuzhou West",
	"Xiamen North", "Xiamen", "Xiamen West",
}

var trainPrefixes = []string{"G", "D", "C"}

// GenerateTickets produces random sample fare rows over the fixed station
// list, for seeding a store without a real data file.
func GenerateTickets(count int) []models.Ticket {
	tickets := make([]models.Ticket, 0, count)
	for i := 0; i < count; i++ {
		tickets = append(tickets, generateTicket())
	}
	return tickets
}

func generateTicket() models.Ticket {
	fromIdx := rand.Intn(len(sampleStations))
	toIdx := rand.Intn(len(sampleStations))
	for toIdx == fromIdx {
		toIdx = rand.Intn(len(sampleStations))
	}

	from := sampleStations[fromIdx]
	to := sampleStations[toIdx]
	seatType := models.SeatClasses[rand.Intn(len(models.SeatClasses))]

	return models.Ticket{
		TrainNumber:   generateTrainNumber(),
		FromStation:   from,
		ToStation:     to,
		DepartureTime: generateTime(),
		ArrivalTime:   generateTime(),
		Price:         generatePrice(fromIdx, toIdx, seatType),
		SeatType:      seatType,
	}
}

func generateTrainNumber() string {
	prefix := trainPrefixes[rand.Intn(len(trainPrefixes))]
	return fmt.Sprintf("%s%03d", prefix, rand.Intn(1000)+1)
}

func generateTime() string {
	// Departures on quarter-hour marks.
	return fmt.Sprintf("%02d:%02d", rand.Intn(24), rand.Intn(4)*15)
}

// generatePrice estimates a base price from station-list distance and the
// seat-class ratio, with a small random spread.
func generatePrice(fromIdx, toIdx int, seatType string) float64 {
	distance := fromIdx - toIdx
	if distance < 0 {
		distance = -distance
	}
	if distance == 0 {
		distance = 1
	}

	base := float64(distance) * 15
	ratio, ok := seatRatios[seatType]
	if !ok {
		ratio = 1.0
	}

	spread := 0.9 + rand.Float64()*0.2
	return Round2(base * ratio * spread)
}
