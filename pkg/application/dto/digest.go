package dto

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// Canonicalize returns the request as JSON with every collection in a stable order,
// so that two requests describing the same run serialize identically
func Canonicalize(req PlanningRunRequest) ([]byte, error) {
	run := req.ToRun()

	sort.Slice(run.Items, func(i, j int) bool { return run.Items[i].Code < run.Items[j].Code })
	sort.Slice(run.BOM, func(i, j int) bool {
		a, b := run.BOM[i], run.BOM[j]
		if a.Parent != b.Parent {
			return a.Parent < b.Parent
		}
		if a.Child != b.Child {
			return a.Child < b.Child
		}
		return a.EffectiveFrom < b.EffectiveFrom
	})
	sortEntries(run.Demand, func(e entities.DemandEntry) (entities.ItemCode, int, string, entities.Quantity) {
		return e.Item, e.Bucket, e.SourceRef, e.Quantity
	})
	sortEntries(run.Supply, func(e entities.SupplyEntry) (entities.ItemCode, int, string, entities.Quantity) {
		return e.Item, e.Bucket, e.SourceRef, e.Quantity
	})

	return json.Marshal(FromRun(run))
}

func sortEntries[T any](entries []T, key func(T) (entities.ItemCode, int, string, entities.Quantity)) {
	sort.SliceStable(entries, func(i, j int) bool {
		ai, ab, as, aq := key(entries[i])
		bi, bb, bs, bq := key(entries[j])
		if ai != bi {
			return ai < bi
		}
		if ab != bb {
			return ab < bb
		}
		if as != bs {
			return as < bs
		}
		return aq < bq
	})
}

// Digest computes the blake3 hash of a canonicalized request
func Digest(req PlanningRunRequest) (string, error) {
	canonical, err := Canonicalize(req)
	if err != nil {
		return "", fmt.Errorf("canonicalize request: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash request: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
