package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/groblegark/srvenv/internal/client"
	"github.com/groblegark/srvenv/internal/events"
	"github.com/groblegark/srvenv/internal/model"
)

var (
	watchType string
	watchName string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch records and print changes as they happen",
	Long: `Watch prints matching records whenever they change. With SRVENV_NATS_URL
set it reacts to server events; otherwise it polls at --interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")

		req := &client.ListRecordsRequest{
			Type: watchType,
			Name: watchName,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		seen := make(map[string]time.Time)

		// Initial query.
		if err := queryAndPrint(ctx, req, seen); err != nil {
			return err
		}
		if once {
			return nil
		}

		// Choose event-driven or polling mode.
		natsURL := os.Getenv("SRVENV_NATS_URL")
		if natsURL != "" {
			return watchNATS(ctx, natsURL, req, seen)
		}
		return watchPoll(ctx, interval, req, seen)
	},
}

// watchNATS subscribes to server events and re-queries on changes with debounce.
func watchNATS(ctx context.Context, natsURL string, req *client.ListRecordsRequest, seen map[string]time.Time) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-query for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	// The srvenv.env.reloaded topic matters here: a reload changes resolved
	// values without touching any record row.
	ch, cancel, err := sub.Subscribe("srvenv.>")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0) // immediate re-query
		case <-debounce.C:
			if err := queryAndPrint(ctx, req, seen); err != nil {
				return err
			}
		}
	}
}

// watchPoll polls for changes at the given interval.
func watchPoll(ctx context.Context, interval time.Duration, req *client.ListRecordsRequest, seen map[string]time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := queryAndPrint(ctx, req, seen); err != nil {
			return err
		}
	}
}

// queryAndPrint lists matching records, diffs against the seen map, and
// prints any changes.
func queryAndPrint(ctx context.Context, req *client.ListRecordsRequest, seen map[string]time.Time) error {
	resp, err := svClient.ListRecords(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	changed := diffRecords(resp.Records, seen)
	if len(changed) > 0 {
		if jsonOutput {
			printJSON(changed)
		} else {
			printRecordTable(changed, resp.Total)
		}
	}
	return nil
}

// diffRecords compares records against the seen map and returns those that
// are new or have a different updated_at timestamp. It updates seen in place.
func diffRecords(records []*model.Record, seen map[string]time.Time) []*model.Record {
	var changed []*model.Record
	for _, r := range records {
		prev, ok := seen[r.ID]
		if !ok || !r.UpdatedAt.Equal(prev) {
			changed = append(changed, r)
		}
		seen[r.ID] = r.UpdatedAt
	}
	return changed
}

func init() {
	watchCmd.Flags().StringVar(&watchType, "type", "", "filter by record type")
	watchCmd.Flags().StringVar(&watchName, "name", "", "filter by name substring")
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval")
	watchCmd.Flags().Bool("once", false, "exit after first query")
	rootCmd.AddCommand(watchCmd)
}
