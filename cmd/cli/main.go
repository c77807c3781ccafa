package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL   string
	timeout   time.Duration
	authToken string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "parklot-cli",
		Short: "Parklot CLI tool",
		Long:  `A command line interface for interacting with the Parklot API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Parklot API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("PARKLOT_TOKEN"), "JWT bearer token (defaults to PARKLOT_TOKEN)")

	// Entry commands
	entryCmd := &cobra.Command{
		Use:   "entry <two-wheeler|four-wheeler> <vehicle-no> [phone-number]",
		Short: "Record a vehicle entry",
		Args:  cobra.RangeArgs(2, 3),
		Run: func(cmd *cobra.Command, args []string) {
			phone := ""
			if len(args) == 3 {
				phone = args[2]
			}
			recordEntry(args[0], args[1], phone)
		},
	}

	exitCmd := &cobra.Command{
		Use:   "exit <two-wheeler|four-wheeler> <token-id>",
		Short: "Settle a vehicle exit",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			processExit(args[0], args[1])
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the live lot snapshot",
		Run: func(cmd *cobra.Command, args []string) {
			showStats()
		},
	}

	reportCmd := &cobra.Command{
		Use:   "report [today|yesterday|7days|30days]",
		Short: "Show the aggregated report",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			filter := "today"
			if len(args) == 1 {
				filter = args[0]
			}
			showReport(filter)
		},
	}

	rootCmd.AddCommand(entryCmd, exitCmd, statsCmd, reportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func doRequest(method, path string, payload any) []byte {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(raw))
		os.Exit(1)
	}

	return raw
}

func recordEntry(class, vehicleNo, phone string) {
	payload := map[string]string{"vehicle_no": vehicleNo}
	if phone != "" {
		payload["phone_number"] = phone
	}

	raw := doRequest(http.MethodPost, "/"+class+"-entry", payload)

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Entry recorded\n")
	fmt.Printf("Token: %s\n", result["token_id"])
	fmt.Printf("Entry time: %s\n", result["entry_time"])
}

func processExit(class, tokenID string) {
	raw := doRequest(http.MethodPost, "/"+class+"-exit/"+tokenID, nil)

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exit settled\n")
	fmt.Printf("Token: %s\n", result["token_id"])
	fmt.Printf("Amount due: %v\n", result["amount"])
}

func showStats() {
	raw := doRequest(http.MethodGet, "/stats", nil)

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Two wheelers parked:  %v\n", result["two_wheeler_open"])
	fmt.Printf("Four wheelers parked: %v\n", result["four_wheeler_open"])
	fmt.Printf("Total parked:         %v\n", result["total_open"])
	fmt.Printf("Revenue today:        %v\n", result["today_revenue"])
}

func showReport(filter string) {
	raw := doRequest(http.MethodGet, "/reports?date_filter="+filter, nil)

	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Report (%s)\n", filter)
	fmt.Printf("Total entries: %v\n", result["total_entries"])
	fmt.Printf("Total revenue: %v\n", result["total_revenue"])
	fmt.Printf("Currently parked: %v\n", result["total_open"])
}
