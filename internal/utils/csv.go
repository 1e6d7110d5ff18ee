package utils

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"tradingStrategyBot/internal/domain"
)

func WriteCandlesToCSV(candles []domain.Candle, symbol string, interval domain.Interval, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"date", "symbol", "interval", "open", "high", "low", "close", "volume"})

	for _, c := range candles {
		writer.Write([]string{
			c.Timestamp.Format(time.RFC3339),
			symbol,
			string(interval),
			strconv.FormatFloat(c.Open, 'f', -1, 64),
			strconv.FormatFloat(c.High, 'f', -1, 64),
			strconv.FormatFloat(c.Low, 'f', -1, 64),
			strconv.FormatFloat(c.Close, 'f', -1, 64),
			strconv.FormatInt(c.Volume, 10),
		})
	}
	return writer.Error()
}
