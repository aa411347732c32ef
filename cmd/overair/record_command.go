package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"overair/internal/dvr"
	"overair/internal/logging"
	"overair/internal/ratings"
	"overair/internal/scoring"
	"overair/internal/store"
	"overair/internal/textutil"
	"overair/internal/tracking"
)

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Judge upcoming airings with the scoring model and schedule DVR recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger = logger.With(logging.String(logging.FieldComponent, "record"))
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			runCtx := cmd.Context()
			from := time.Now().UTC().Format(time.RFC3339)
			airings, err := st.UpcomingAirings(runCtx, from, limit)
			if err != nil {
				return err
			}

			scorer := scoring.NewClient(cfg.Scoring)
			rater := ratings.NewClient(cfg.Ratings)
			var recorder *dvr.Client
			if cfg.DVR.Enabled && !dryRun {
				recorder = dvr.NewClient(cfg.DVR)
			}

			checked, scheduled := 0, 0
			out := cmd.OutOrStdout()
			for _, airing := range airings {
				if err := runCtx.Err(); err != nil {
					return err
				}
				if airing.Recorded {
					continue
				}
				checked++

				title := textutil.DisplayTitle(airing.Title)
				rating := ""
				if rater != nil {
					if value, err := rater.Lookup(runCtx, title); err == nil {
						rating = value
					} else {
						logger.Debug("ratings lookup unavailable",
							logging.String("title", title), logging.Error(err))
					}
				}

				start, stop, err := airingWindow(airing)
				if err != nil {
					logger.Warn("airing has unusable times, skipping",
						logging.String("title", title), logging.Error(err))
					continue
				}

				verdict, err := scorer.Judge(runCtx, scoring.Request{
					Title:       title,
					Description: airing.Description,
					Rating:      rating,
					Start:       time.Unix(start, 0),
					Criteria:    cfg.Scoring.Criteria,
				})
				if err != nil {
					return fmt.Errorf("score airing %q: %w", title, err)
				}
				if !verdict.Record {
					fmt.Fprintf(out, "Skipped: %s - %s\n", title, verdict.Reason)
					continue
				}

				if recorder != nil {
					err := recorder.ScheduleRecording(runCtx, dvr.Entry{
						Channel: airing.ChannelNumber,
						Start:   start,
						Stop:    stop,
						Title:   title,
						Comment: "overair auto",
					})
					if err != nil {
						logger.Error("dvr scheduling failed",
							logging.String("title", title), logging.Error(err))
						continue
					}
				}

				if !dryRun {
					_, err = st.InsertRecording(runCtx, &store.Recording{
						ChannelID: airing.ChannelID,
						StartTS:   start,
						StopTS:    stop,
						Title:     title,
						Reason:    verdict.Reason,
					})
					if err != nil {
						return err
					}
				}
				scheduled++
				fmt.Fprintf(out, "Scheduled: %s - %s\n", title, verdict.Reason)
			}

			reportRecordRun(ctx, cmd, checked, scheduled)
			fmt.Fprintf(out, "Checked %d airings, scheduled %d\n", checked, scheduled)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of upcoming airings to judge")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Judge airings without creating DVR entries")
	return cmd
}

func airingWindow(airing store.Airing) (start, stop int64, err error) {
	startTime, err := time.Parse(time.RFC3339, airing.StartDate)
	if err != nil {
		return 0, 0, fmt.Errorf("parse start %q: %w", airing.StartDate, err)
	}
	stopTime, err := time.Parse(time.RFC3339, airing.EndDate)
	if err != nil || !stopTime.After(startTime) {
		stopTime = startTime
	}
	return startTime.Unix(), stopTime.Unix(), nil
}

func reportRecordRun(ctx *commandContext, cmd *cobra.Command, checked, scheduled int) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return
	}
	sink := tracking.NewSink(cfg)
	successRate := float64(scheduled) / float64(max(1, checked))
	err = sink.LogRun(cmd.Context(), tracking.Run{
		Name: "record-" + time.Now().UTC().Format("20060102-150405"),
		Params: map[string]string{
			"mode":           "record",
			"events_checked": strconv.Itoa(checked),
			"scheduled":      strconv.Itoa(scheduled),
		},
		Metrics: map[string]float64{
			"success_rate": successRate,
		},
	})
	if err != nil {
		if logger, lerr := ctx.ensureLogger(); lerr == nil {
			logger.Warn("experiment tracking failed", logging.Error(err))
		}
	}
}
