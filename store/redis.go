package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"ticketing-marketplace-backend/ledger"
	"ticketing-marketplace-backend/model"

	"github.com/go-redis/redis"
)

const (
	fieldVersion        = "version"
	fieldTotalReceived  = "total_received"
	fieldTotalWithdrawn = "total_withdrawn"
)

// NewRedis returns a store keeping the ledger under keys prefixed by prefix.
// The caller owns client.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "ledger"
	}
	return &Redis{client: client, prefix: prefix}
}

type Redis struct {
	client *redis.Client
	prefix string
}

func (r *Redis) key(name string) string {
	return fmt.Sprintf("%s:%s", r.prefix, name)
}

func (r *Redis) Load(ctx context.Context) (*ledger.State, error) {
	var c ledger.Changes
	client := r.client.WithContext(ctx)

	meta, err := client.HGetAll(r.key("meta")).Result()
	if err != nil {
		return nil, fmt.Errorf("load: error reading ledger meta: %w", err)
	}
	if c.Version, err = parseUint(meta, fieldVersion); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if c.Totals.Received, err = parseUint(meta, fieldTotalReceived); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if c.Totals.Withdrawn, err = parseUint(meta, fieldTotalWithdrawn); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	order, err := client.LRange(r.key("event_order"), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load: error reading event order: %w", err)
	}
	events, err := client.HGetAll(r.key("events")).Result()
	if err != nil {
		return nil, fmt.Errorf("load: error reading events: %w", err)
	}
	for _, id := range order {
		raw, ok := events[id]
		if !ok {
			return nil, fmt.Errorf("load: event %s in order but not stored", id)
		}
		var e model.Event
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("load: error decoding event %s: %w", id, err)
		}
		c.Events = append(c.Events, e)
		c.Appended = append(c.Appended, e.ID)
	}

	tickets, err := client.HGetAll(r.key("tickets")).Result()
	if err != nil {
		return nil, fmt.Errorf("load: error reading tickets: %w", err)
	}
	for id, raw := range tickets {
		var t model.Ticket
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("load: error decoding ticket %s: %w", id, err)
		}
		c.Tickets = append(c.Tickets, t)
	}

	balances, err := client.HGetAll(r.key("escrow")).Result()
	if err != nil {
		return nil, fmt.Errorf("load: error reading escrow: %w", err)
	}
	c.Balances = make(map[model.Identity]uint64, len(balances))
	for identity := range balances {
		v, err := parseUint(balances, identity)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		c.Balances[model.Identity(identity)] = v
	}

	s := ledger.NewState()
	s.Apply(c)
	return s, nil
}

// Commit writes c in one MULTI/EXEC, watched on the meta hash so a
// concurrent writer makes it fail with ErrVersionConflict.
func (r *Redis) Commit(ctx context.Context, c ledger.Changes) error {
	metaKey := r.key("meta")

	err := r.client.WithContext(ctx).Watch(func(tx *redis.Tx) error {
		current, err := tx.HGet(metaKey, fieldVersion).Uint64()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("commit: error reading version: %w", err)
		}
		if current != c.Version-1 {
			return ErrVersionConflict
		}

		fields, err := encodeChanges(c)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(func(pipe redis.Pipeliner) error {
			for _, id := range c.Appended {
				pipe.RPush(r.key("event_order"), strconv.FormatUint(id, 10))
			}
			for name, values := range fields {
				if len(values) > 0 {
					pipe.HMSet(r.key(name), values)
				}
			}
			return nil
		})
		return err
	}, metaKey)

	if err == redis.TxFailedErr {
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("commit: version %d: %w", c.Version, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// encodeChanges maps hash name to the fields written by c.
func encodeChanges(c ledger.Changes) (map[string]map[string]interface{}, error) {
	fields := map[string]map[string]interface{}{
		"meta": {
			fieldVersion:        c.Version,
			fieldTotalReceived:  c.Totals.Received,
			fieldTotalWithdrawn: c.Totals.Withdrawn,
		},
		"events":  {},
		"tickets": {},
		"escrow":  {},
	}

	for _, e := range c.Events {
		b, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("encodeChanges: error encoding event %d: %w", e.ID, err)
		}
		fields["events"][strconv.FormatUint(e.ID, 10)] = string(b)
	}
	for _, t := range c.Tickets {
		b, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("encodeChanges: error encoding ticket %d: %w", t.ID, err)
		}
		fields["tickets"][strconv.FormatUint(t.ID, 10)] = string(b)
	}
	for identity, pending := range c.Balances {
		fields["escrow"][string(identity)] = pending
	}
	return fields, nil
}

func parseUint(m map[string]string, field string) (uint64, error) {
	raw, ok := m[field]
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parseUint: field %s: %w", field, err)
	}
	return v, nil
}
