// File: cmd/crumbwatch/main.go
// crumbwatch: remote breadcrumb listener.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// crumbwatch is the receiving end of the breadcrumb wire protocol. It
// replaces the traditional
//
//	nc -lvup $PORT | stdbuf -o0 xxd -pc -c 4 | awk '{...}'
//
// pipeline: it listens for 4-byte big-endian datagrams, prints each
// breadcrumb index with its occurrence count (the count is what tells
// a replayed stream apart from fresh progress), and can persist the
// event sequence into a sqlite database for later comparison between
// runs.

package main

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	listen  string
	dbPath  string
	verbose bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "crumbwatch",
		Short: "Listen for breadcrumb datagrams and track unit progress",
		Long: `Listen for breadcrumb datagrams and track unit progress.

Each received datagram is one breadcrumb: a 4-byte big-endian index.
crumbwatch prints "index:occurrence" per event; after a hang, the last
printed line names the last checkpoint the unit retired.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watch(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.listen, "listen", "l", ":9000", "UDP address to listen on")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "sqlite file to persist events into")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	return cmd
}

func watch(parent context.Context, opts *watchOptions) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *eventStore
	if opts.dbPath != "" {
		var err error
		store, err = openEventStore(opts.dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	conn, err := net.ListenPacket("udp", opts.listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", opts.listen, err)
	}
	defer conn.Close()
	logger.Info("listening for breadcrumbs", "addr", conn.LocalAddr().String())

	occurrences := make(map[uint32]uint64)
	buf := make([]byte, 16)
	for {
		if err := conn.SetReadDeadline(time.Now().Add(250 * time.Millisecond)); err != nil {
			return err
		}
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				select {
				case <-ctx.Done():
					logger.Info("shutting down")
					return nil
				default:
					continue
				}
			}
			return err
		}
		if n != 4 {
			logger.Debug("ignoring datagram of unexpected size", "bytes", n, "from", from.String())
			continue
		}

		seqno := binary.BigEndian.Uint32(buf[:4])
		occurrences[seqno]++
		occ := occurrences[seqno]

		fmt.Printf("%d:%d\n", seqno, occ)
		logger.Debug("breadcrumb", "seqno", seqno, "occurrence", occ, "from", from.String())

		if store != nil {
			if err := store.record(seqno, occ); err != nil {
				logger.Error("persist event", "err", err)
			}
		}
	}
}

// eventStore appends breadcrumb events to a sqlite file.
type eventStore struct {
	db *sql.DB
}

func openEventStore(path string) (*eventStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open event store %s: %w", path, err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seqno INTEGER NOT NULL,
		occurrence INTEGER NOT NULL,
		received_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create events table: %w", err)
	}
	return &eventStore{db: db}, nil
}

func (s *eventStore) record(seqno uint32, occurrence uint64) error {
	_, err := s.db.Exec(
		"INSERT INTO events (seqno, occurrence) VALUES (?, ?)",
		int64(seqno), int64(occurrence),
	)
	return err
}

func (s *eventStore) Close() error { return s.db.Close() }
