package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	energyGrpc "energy-report-service/pkg/grpc"
)

var maxBatches int = 1000
var batchSize int = 12
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"

var grpcClient energyGrpc.EnergyServiceClient

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

var failures atomic.Int64

func main() {
	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	conn, err := grpc.NewClient(grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = energyGrpc.NewEnergyServiceClient(conn)

	fmt.Printf("gRPC client connected\n")

	var startTime time.Time
	var usedTime time.Duration

	// one sample a minute going back from now
	base := time.Now().UTC().Truncate(time.Minute)

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxBatches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			postBatch(genBatch(base.Add(-time.Duration(i*batchSize) * time.Minute)))
			fmt.Printf("\rposted batch %v", i)
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rposted %v batches of %v rows: used time=%v seconds, throughput=%v rows/second, failures=%v\n",
		maxBatches, batchSize, usedTime.Seconds(), float64(maxBatches*batchSize)/usedTime.Seconds(), failures.Load(),
	)

	formats := []string{"html", "csv", "json", "xlsx", "pdf"}
	startTime = time.Now()
	for range 20 {
		for _, format := range formats {
			getReport(format)
		}
		getDay()
	}
	usedTime = time.Since(startTime)

	fmt.Printf(
		"fetched %v reports: used time=%v seconds, latency=%v ms/report\n",
		20*(len(formats)+1), usedTime.Seconds(), usedTime.Seconds()*1000/float64(20*(len(formats)+1)),
	)
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	rndMu.Lock()
	val := min + rnd.Float64()*(max-min)
	rndMu.Unlock()
	multiplier := math.Pow10(decimal)
	return math.Round(val*multiplier) / multiplier
}

func genBatch(from time.Time) []any {
	batch := make([]any, batchSize)
	for i := range batchSize {
		batch[i] = map[string]any{
			"ts":                 from.Add(-time.Duration(i) * time.Minute).Format(time.RFC3339),
			"temperature_c":      rndFloat64(-20, 30, 1),
			"relative_humidity":  rndFloat64(20, 100, 0),
			"wind_speed_ms":      rndFloat64(0, 15, 1),
			"wind_direction_deg": rndFloat64(0, 359, 0),
			"pv_feed_in_w":       rndFloat64(0, 5000, 0),
			"battery_soc_pct":    rndFloat64(0, 100, 0),
		}
	}
	return batch
}

func postBatch(batch []any) {
	if flipCoin() {
		jsonData, _ := json.Marshal(batch)
		resp, err := http.Post(fmt.Sprintf("http://%s/telemetry", httpHostPort), "application/json", bytes.NewBuffer(jsonData))
		if err != nil {
			failures.Add(1)
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			failures.Add(1)
		}
		return
	}

	value, err := structpb.NewValue(batch)
	if err != nil {
		panic(err)
	}
	if _, err := grpcClient.IngestTelemetry(context.Background(), value); err != nil {
		failures.Add(1)
		fmt.Printf("\nerror: %v\n", err)
	}
}

func getReport(format string) {
	resp, err := http.Get(fmt.Sprintf("http://%s/report?format=%s", httpHostPort, format))
	if err != nil {
		fmt.Printf("\nerror: %v\n", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("\nreport %v status code != 200: %v\n", format, resp.StatusCode)
	}
}

func getDay() {
	if _, err := grpcClient.GetDay(context.Background(), &structpb.Struct{}); err != nil {
		fmt.Printf("\nerror: %v\n", err)
	}
}
