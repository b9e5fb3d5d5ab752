package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"

	"github.com/strainnet/portal/backend/pkg/leaselock"
	"github.com/strainnet/portal/backend/pkg/logger"
	netdb "github.com/strainnet/portal/backend/pkg/netquery/pgx"
)

// OrthologPrecomputeMsg asks the worker to recount ortholog annotations
// for every protein of one species.
type OrthologPrecomputeMsg struct {
	Species     string `json:"species"`
	RequestedBy int64  `json:"requested_by"`
}

// OrthologPrecomputeDoneMsg is broadcast on the pubsub exchange once a
// recount finished, so interested clients can refresh.
type OrthologPrecomputeDoneMsg struct {
	Species  string `json:"species"`
	Proteins int    `json:"proteins"`
	Tagged   int    `json:"tagged"`
}

// ProcessOrthologMessage recounts ortholog annotations for a species.
// It walks every locus tag of the species, counts its ortholog partners
// and writes the counts back so neighborhood queries can tag nodes
// without joining the full ortholog table.
func ProcessOrthologMessage(
	ctx context.Context,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
	body string,
) error {
	var data OrthologPrecomputeMsg
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return fmt.Errorf("failed to unmarshal ortholog message: %w", err)
	}
	if data.Species == "" {
		return fmt.Errorf("ortholog message missing species")
	}

	// One recount per species at a time across all workers.
	locks := leaselock.New(conn)
	err := locks.WithLease(ctx, "ortholog_recount:"+data.Species, leaselock.Options{
		TTL: 10 * time.Minute,
	}, func(ctx context.Context) error {
		return recountSpecies(ctx, ch, conn, data)
	})
	if errors.Is(err, leaselock.ErrBusy) {
		logger.Info("[Queue] Recount already running, skipping", "species", data.Species)
		return nil
	}
	return err
}

func recountSpecies(
	ctx context.Context,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
	data OrthologPrecomputeMsg,
) error {
	q := netdb.NewNetworkDBQuery(conn)

	loci, err := q.ListSpeciesLoci(ctx, data.Species)
	if err != nil {
		return fmt.Errorf("failed to list loci for species %s: %w", data.Species, err)
	}
	if len(loci) == 0 {
		logger.Warn("[Queue] No proteins found for species", "species", data.Species)
		return nil
	}

	orthologs, err := q.GetBatch(ctx, loci, "")
	if err != nil {
		return fmt.Errorf("failed to resolve orthologs for species %s: %w", data.Species, err)
	}

	counts := make(map[string]int, len(loci))
	tagged := 0
	for _, tag := range loci {
		n := len(orthologs[tag])
		counts[tag] = n
		if n > 0 {
			tagged++
		}
	}

	if err := q.UpsertOrthologCounts(ctx, counts); err != nil {
		return fmt.Errorf("failed to store ortholog counts for species %s: %w", data.Species, err)
	}

	logger.Info(
		"[Queue] Ortholog recount finished",
		"species", data.Species,
		"proteins", len(loci),
		"tagged", tagged,
	)

	doneMsg, err := json.Marshal(OrthologPrecomputeDoneMsg{
		Species:  data.Species,
		Proteins: len(loci),
		Tagged:   tagged,
	})
	if err != nil {
		return nil
	}
	if err := PublishTopic(ch, fmt.Sprintf("orthologs.%s.done", data.Species), doneMsg); err != nil {
		logger.Warn("[Queue] Failed to broadcast recount completion", "species", data.Species, "err", err)
	}

	return nil
}
