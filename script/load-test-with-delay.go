package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRequest is the credit and debit payload
type TransactionRequest struct {
	Amount    string `json:"amount"`
	Reference string `json:"reference"`
	Kind      string `json:"kind"`
}

// TransactionResponse is the part of a committed transaction the test checks
type TransactionResponse struct {
	Amount       string `json:"amount"`
	BalanceAfter string `json:"balanceAfter"`
}

// TestResult contains metrics for a single request
type TestResult struct {
	Success      bool
	Rejected     bool // a refused overdraft, expected under load
	WalletID     string
	Amount       decimal.Decimal
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	RejectedRequests   int
	FailedRequests     int
	TotalTime          time.Duration
	MinResponseTime    time.Duration
	MaxResponseTime    time.Duration
	TotalResponseTime  time.Duration
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	ScenarioStats      map[string]int
	Expected           map[string]decimal.Decimal // wallet id to sum of committed amounts
	Lock               sync.Mutex
}

// TransactionScenario defines a transaction scenario
type TransactionScenario struct {
	Name      string // For stats tracking
	Direction string // credit or debit
	Kind      string
	Amount    string
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 100, "Total number of requests to make")
	wallets := flag.Int("w", 3, "Number of users to register and distribute load across")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API (run with gateway.driver=sandbox)")
	delayMs := flag.Int("delay", 100, "Delay between requests in milliseconds")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	walletIDs, err := registerUsers(client, *baseURL, *wallets)
	if err != nil {
		fmt.Printf("Failed to prepare wallets: %v\n", err)
		return
	}

	scenarios := []TransactionScenario{
		{"Fund Small", "credit", "funding", "10.00"},
		{"Fund Medium", "credit", "funding", "20.00"},
		{"Fund Large", "credit", "funding", "30.00"},
		{"Withdraw Small", "debit", "withdrawal", "15.00"},
		{"Purchase Medium", "debit", "purchase", "40.00"},
		{"Withdraw Large", "debit", "withdrawal", "60.00"},
	}

	fmt.Printf("Load testing API across %d wallets\n", len(walletIDs))
	fmt.Printf("Transaction scenarios: %d different combinations\n", len(scenarios))
	fmt.Printf("Concurrency: %d goroutines\n", *concurrency)
	fmt.Printf("Total requests: %d\n", *totalRequests)
	fmt.Printf("Delay between requests: %d ms\n", *delayMs)

	stats := &TestStats{
		TotalRequests:   *totalRequests,
		MinResponseTime: time.Hour,
		ErrorCounts:     make(map[string]int),
		ResponseTimes:   make([]time.Duration, 0, *totalRequests),
		ScenarioStats:   make(map[string]int),
		Expected:        make(map[string]decimal.Decimal),
	}
	for _, id := range walletIDs {
		stats.Expected[id] = decimal.Zero
	}

	results := make(chan TestResult, *totalRequests)
	jobs := make(chan int, *totalRequests)

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			worker(workerID, client, *baseURL, *delayMs, walletIDs, scenarios, jobs, results, stats)
		}(i)
	}

	go func() {
		for i := 0; i < *totalRequests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	var collected sync.WaitGroup
	collected.Add(1)
	go func() {
		defer collected.Done()
		for result := range results {
			stats.Lock.Lock()
			switch {
			case result.Success:
				stats.SuccessfulRequests++
				stats.Expected[result.WalletID] = stats.Expected[result.WalletID].Add(result.Amount)
			case result.Rejected:
				stats.RejectedRequests++
			default:
				stats.FailedRequests++
				errMsg := "unknown"
				if result.Error != nil {
					errMsg = result.Error.Error()
				}
				stats.ErrorCounts[errMsg]++
			}

			stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
			stats.TotalResponseTime += result.ResponseTime
			stats.MinResponseTime = min(stats.MinResponseTime, result.ResponseTime)
			stats.MaxResponseTime = max(stats.MaxResponseTime, result.ResponseTime)
			stats.Lock.Unlock()
		}
	}()

	startTime := time.Now()
	fmt.Println("Test running...")

	wg.Wait()
	close(results)
	collected.Wait()

	stats.TotalTime = time.Since(startTime)

	printResults(stats)
	verifyBalances(client, *baseURL, stats.Expected)
}

// registerUsers provisions one user per wallet through the sandbox gateway
func registerUsers(client *http.Client, baseURL string, n int) ([]string, error) {
	run := time.Now().UnixNano() % 1_000_000
	ids := make([]string, 0, n)

	for i := 0; i < n; i++ {
		body, err := json.Marshal(map[string]string{
			"fullName":     fmt.Sprintf("Load Tester %d", i),
			"email":        fmt.Sprintf("load-%d-%d@example.com", run, i),
			"mobileNumber": fmt.Sprintf("080%08d", run*100+int64(i)),
			"bvn":          fmt.Sprintf("2%010d", run*100+int64(i)),
			"nin":          fmt.Sprintf("1%010d", run*100+int64(i)),
			"dateOfBirth":  "1990-01-01",
			"password":     "load-test-password",
		})
		if err != nil {
			return nil, err
		}

		resp, err := client.Post(baseURL+"/users", "application/json", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		var created struct {
			Wallet struct {
				ID string `json:"id"`
			} `json:"wallet"`
		}
		err = json.NewDecoder(resp.Body).Decode(&created)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusCreated || created.Wallet.ID == "" {
			return nil, fmt.Errorf("register user %d: HTTP status code %d", i, resp.StatusCode)
		}
		ids = append(ids, created.Wallet.ID)
	}
	return ids, nil
}

func worker(id int, client *http.Client, baseURL string, delayMs int, walletIDs []string,
	scenarios []TransactionScenario, jobs <-chan int, results chan<- TestResult, stats *TestStats) {

	for jobID := range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		walletID := walletIDs[rand.Intn(len(walletIDs))]
		scenario := scenarios[rand.Intn(len(scenarios))]

		stats.Lock.Lock()
		stats.ScenarioStats[scenario.Name]++
		stats.Lock.Unlock()

		jsonData, err := json.Marshal(TransactionRequest{
			Amount:    scenario.Amount,
			Reference: fmt.Sprintf("load-%d-%d-%d", id, jobID, rand.Intn(1000000)),
			Kind:      scenario.Kind,
		})
		if err != nil {
			results <- TestResult{Error: err}
			continue
		}

		apiURL := fmt.Sprintf("%s/wallets/%s/%s", baseURL, walletID, scenario.Direction)

		startTime := time.Now()
		resp, err := client.Post(apiURL, "application/json", bytes.NewBuffer(jsonData))
		result := TestResult{
			WalletID:     walletID,
			ResponseTime: time.Since(startTime),
		}

		if err != nil {
			result.Error = err
			results <- result
			continue
		}

		result.StatusCode = resp.StatusCode
		switch {
		case resp.StatusCode == http.StatusCreated:
			var tx TransactionResponse
			if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
				result.Error = err
				break
			}
			result.Success = true
			result.Amount = decimal.RequireFromString(tx.Amount)
		case resp.StatusCode == http.StatusUnprocessableEntity && scenario.Direction == "debit":
			result.Rejected = true
		default:
			result.Error = fmt.Errorf("HTTP status code %d", resp.StatusCode)
		}
		resp.Body.Close()

		results <- result
	}
}

// verifyBalances checks that every wallet's balance is the sum of its committed amounts
func verifyBalances(client *http.Client, baseURL string, expected map[string]decimal.Decimal) {
	fmt.Println("\n----------------- LEDGER CHECK -----------------")
	consistent := true
	for walletID, want := range expected {
		resp, err := client.Get(fmt.Sprintf("%s/wallets/%s/balance", baseURL, walletID))
		if err != nil {
			fmt.Printf("%s: %v\n", walletID, err)
			consistent = false
			continue
		}

		var balance struct {
			Balance string `json:"balance"`
		}
		err = json.NewDecoder(resp.Body).Decode(&balance)
		resp.Body.Close()
		if err != nil {
			fmt.Printf("%s: %v\n", walletID, err)
			consistent = false
			continue
		}

		got := decimal.RequireFromString(balance.Balance)
		status := "ok"
		if !got.Equal(want) {
			status = "MISMATCH"
			consistent = false
		}
		if got.IsNegative() {
			status = "NEGATIVE"
			consistent = false
		}
		fmt.Printf("%s: balance %s, expected %s [%s]\n", walletID, got.StringFixed(2), want.StringFixed(2), status)
	}

	if consistent {
		fmt.Println("✅ Every balance equals the sum of its committed transactions")
	} else {
		fmt.Println("❌ Ledger inconsistency detected")
	}
}

func printResults(stats *TestStats) {
	rawTps := float64(stats.SuccessfulRequests) / stats.TotalTime.Seconds()
	theoreticalTps := float64(stats.TotalRequests) / stats.TotalTime.Seconds()

	var avgResponseTime time.Duration
	if len(stats.ResponseTimes) > 0 {
		avgResponseTime = stats.TotalResponseTime / time.Duration(len(stats.ResponseTimes))
	}

	var p50, p90, p95, p99 time.Duration
	if len(stats.ResponseTimes) > 0 {
		sortedTimes := slices.Clone(stats.ResponseTimes)
		slices.Sort(sortedTimes)

		p50 = sortedTimes[len(sortedTimes)*50/100]
		p90 = sortedTimes[len(sortedTimes)*90/100]
		p95 = sortedTimes[len(sortedTimes)*95/100]
		p99 = sortedTimes[len(sortedTimes)*99/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Successful Requests: %d (%.1f%%)\n", stats.SuccessfulRequests,
		float64(stats.SuccessfulRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Rejected Overdrafts: %d (%.1f%%)\n", stats.RejectedRequests,
		float64(stats.RejectedRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Failed Requests:     %d (%.1f%%)\n", stats.FailedRequests,
		float64(stats.FailedRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())

	fmt.Println("\n----------------- PERFORMANCE -----------------")
	fmt.Printf("Raw TPS:             %.2f (committed requests / total time)\n", rawTps)
	fmt.Printf("Theoretical TPS:     %.2f (all requests / total time)\n", theoreticalTps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avgResponseTime)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P90 Response:        %v\n", p90)
	fmt.Printf("P95 Response:        %v\n", p95)
	fmt.Printf("P99 Response:        %v\n", p99)

	fmt.Println("\n----------------- SCENARIO DISTRIBUTION -----------------")
	totalScenarios := 0
	for _, count := range stats.ScenarioStats {
		totalScenarios += count
	}
	for scenario, count := range stats.ScenarioStats {
		if count > 0 {
			fmt.Printf("%-15s: %d requests (%.1f%%)\n", scenario, count,
				float64(count)/float64(totalScenarios)*100)
		}
	}

	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d (%.1f%%)\n", errMsg, count,
				float64(count)/float64(stats.TotalRequests)*100)
		}
	}
}
