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
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bookledger-cli",
		Short: "BookLedger CLI tool",
		Long:  `A command line interface for interacting with the BookLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the BookLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Account commands
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var asOf string

	balanceCmd := &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show the derived balance of an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/accounts/" + args[0] + "/balance"
			if asOf != "" {
				path += "?as_of=" + asOf
			}

			get(path)
		},
	}
	balanceCmd.Flags().StringVar(&asOf, "as-of", "", "Balance as of an RFC 3339 timestamp")

	entriesCmd := &cobra.Command{
		Use:   "entries <account-id>",
		Short: "List the entries of an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/accounts/" + args[0] + "/entries")
		},
	}

	accountCmd.AddCommand(balanceCmd, entriesCmd)
	rootCmd.AddCommand(accountCmd)

	// Event commands
	eventCmd := &cobra.Command{
		Use:   "event",
		Short: "Accounting event operations",
	}

	var (
		eventType string
		kind      string
		customer  string
		account   string
		from      string
		to        string
		amount    string
		currency  string
	)

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Record and process an accounting event",
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/events", map[string]any{
				"event_type":      eventType,
				"kind":            kind,
				"customer_id":     customer,
				"account_id":      account,
				"from_account_id": from,
				"to_account_id":   to,
				"amount":          amount,
				"currency":        currency,
			})
		},
	}
	recordCmd.Flags().StringVar(&eventType, "type", "", "Event type code")
	recordCmd.Flags().StringVar(&kind, "kind", "deposit", "Event kind (deposit, withdrawal, transfer, fee)")
	recordCmd.Flags().StringVar(&customer, "customer", "", "Customer ID")
	recordCmd.Flags().StringVar(&account, "account", "", "Account ID for single-account events")
	recordCmd.Flags().StringVar(&from, "from", "", "Source account ID for transfers")
	recordCmd.Flags().StringVar(&to, "to", "", "Destination account ID for transfers")
	recordCmd.Flags().StringVar(&amount, "amount", "", "Amount as a decimal string")
	recordCmd.Flags().StringVar(&currency, "currency", "", "Currency code")

	reverseCmd := &cobra.Command{
		Use:   "reverse <event-id>",
		Short: "Reverse a processed event",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/events/"+args[0]+"/reverse", nil)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <event-id>",
		Short: "Show an event",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/events/" + args[0])
		},
	}

	eventCmd.AddCommand(recordCmd, reverseCmd, showCmd)
	rootCmd.AddCommand(eventCmd)

	// Ledger commands
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	ledgerCmd.AddCommand(consistencyCmd)
	rootCmd.AddCommand(ledgerCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func post(path string, payload map[string]any) {
	client := &http.Client{Timeout: timeout}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}

		body = bytes.NewReader(encoded)
	}

	resp, err := client.Post(baseURL+path, "application/json", body)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}

	fmt.Println(pretty.String())
}

func checkConsistency() {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Consistency check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if consistent, ok := result["consistent"].(bool); ok && !consistent {
		fmt.Printf("Consistency check FAILED\nUnbalanced events: %v\n", result["unbalanced_events"])
		os.Exit(1)
	}

	fmt.Printf("Consistency check PASSED\n")
	fmt.Printf("Reversed events: %v\n", result["reversed_events"])
}
