package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/catalogmatch/config"
	"github.com/poiesic/catalogmatch/core"
	"github.com/poiesic/catalogmatch/dictionary"
	"github.com/poiesic/catalogmatch/query"
	"github.com/poiesic/catalogmatch/storage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestResolver(t *testing.T, store *mock.CatalogStore, dict *dictionary.Dictionary, opts ...ResolverOption) *Resolver {
	t.Helper()
	r, err := NewResolver(store, dict, opts...)
	require.NoError(t, err)
	t.Cleanup(r.Release)
	return r
}

// failingStore serves base but fails every lookup for which fail returns true.
func failingStore(base *mock.CatalogStore, fail func(query string) bool) *mock.CatalogStore {
	return &mock.CatalogStore{
		SearchSubstringFunc: func(ctx context.Context, table, q string, limit int) ([]*core.CatalogEntry, error) {
			if fail(q) {
				return nil, fmt.Errorf("lookup %q: connection refused", q)
			}
			return base.SearchSubstring(ctx, table, q, limit)
		},
	}
}

func TestNewResolver(t *testing.T) {
	store := mock.NewCatalogStore(testTable)
	dict := loadedDictionary(t)

	t.Run("valid configuration", func(t *testing.T) {
		r, err := NewResolver(store, dict)
		require.NoError(t, err)
		defer r.Release()
		assert.NotNil(t, r)
	})

	t.Run("with options", func(t *testing.T) {
		r, err := NewResolver(store, dict,
			WithLogger(nil),
			WithMonitor(nil),
			WithParser(query.NewParser("ПЕНОПЛЭКС")),
			WithConfig(config.NewConfig(config.WithPoolSize(2))),
		)
		require.NoError(t, err)
		defer r.Release()
		assert.Equal(t, 2, r.pool.Cap())
	})

	t.Run("nil catalog", func(t *testing.T) {
		_, err := NewResolver(nil, dict)
		assert.ErrorIs(t, err, ErrCatalogRequired)
	})

	t.Run("nil dictionary", func(t *testing.T) {
		_, err := NewResolver(store, nil)
		assert.ErrorIs(t, err, ErrDictionaryRequired)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.PoolSize = 0
		_, err := NewResolver(store, dict, WithConfig(cfg))
		assert.ErrorIs(t, err, config.ErrInvalidConfig)

		_, err = NewResolver(store, dict, WithConfig(nil))
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestResolve_MaterialOnly(t *testing.T) {
	store := mock.NewCatalogStore(testTable, "Пеноплэкс Комфорт 50мм")
	r := newTestResolver(t, store, loadedDictionary(t))

	res, err := r.Resolve(context.Background(), "пеноплэкс", 20)
	require.NoError(t, err)
	assert.Equal(t, core.ArchetypeSimple, res.Query.Archetype)
	assert.False(t, res.Degraded)
	require.NotEmpty(t, res.Results)

	top := res.Results[0]
	assert.Equal(t, core.ID(1), top.EntryId)
	assert.True(t, top.HasStrategy(core.StrategyExact))
	assert.True(t, top.HasStrategy(core.StrategyFuzzy))
	assert.Equal(t, 7.0, top.FinalScore)
}

func TestResolve_TechnicalQuery(t *testing.T) {
	store := &mock.CatalogStore{Entries: map[string][]*core.CatalogEntry{
		testTable: {
			{Id: 3, Name: "Кран шаровой латунный"},
			{Id: 7, Name: "Кран шаровой BVR-R DN32 065B8310R Ридан"},
			{Id: 9, Name: "Фильтр сетчатый DN32"},
		},
	}}
	r := newTestResolver(t, store, loadedDictionary(t))

	res, err := r.Resolve(context.Background(), "Кран шаровой резьбовой BVR-R DN32 065B8310R Ридан", 20)
	require.NoError(t, err)

	q := res.Query
	assert.Equal(t, core.ArchetypeTechnical, q.Archetype)
	assert.Contains(t, q.Blocks.Dimension, "dn32")
	assert.Contains(t, q.Blocks.Article, "065B8310R")
	assert.Contains(t, q.Blocks.Article, "BVR-R")

	require.NotEmpty(t, res.Results)
	top := res.Results[0]
	assert.Equal(t, core.ID(7), top.EntryId)
	assert.True(t, top.HasStrategy(core.StrategyBlockArticle))
	assert.True(t, top.HasStrategy(core.StrategyBlockDimension))
	assert.Contains(t, top.Reasons, "technical block match")
}

func TestResolve_EmptyQuery(t *testing.T) {
	store := mock.NewCatalogStore(testTable, "Пеноплэкс Комфорт 50мм")
	// The dictionary store is never reached for a blank query.
	broken := &mock.SynonymStore{
		CountSynonymsFunc: func(context.Context, core.SynonymKind) (int, error) {
			return 0, errors.New("unreachable")
		},
	}
	dict, err := dictionary.New(broken)
	require.NoError(t, err)
	r := newTestResolver(t, store, dict)

	for _, raw := range []string{"", "   ", "!!! ---"} {
		res, err := r.Resolve(context.Background(), raw, 20)
		require.NoError(t, err, raw)
		assert.NotNil(t, res.Results)
		assert.Empty(t, res.Results)
	}
	assert.Empty(t, store.Queries())
}

func TestResolve_NoMatch(t *testing.T) {
	store := mock.NewCatalogStore(testTable, "Пеноплэкс Комфорт 50мм")
	r := newTestResolver(t, store, loadedDictionary(t))

	res, err := r.Resolve(context.Background(), "кирпич", 20)
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.False(t, res.Degraded)
}

func TestResolve_Limit(t *testing.T) {
	names := make([]string, 5)
	for i := range names {
		names[i] = fmt.Sprintf("Плита %d", i+1)
	}
	r := newTestResolver(t, mock.NewCatalogStore(testTable, names...), loadedDictionary(t))
	ctx := context.Background()

	res, err := r.Resolve(ctx, "плита", 2)
	require.NoError(t, err)
	assert.Len(t, res.Results, 2)

	res, err = r.Resolve(ctx, "плита", 0)
	require.NoError(t, err)
	assert.Len(t, res.Results, 5)
}

func TestResolve_DeterministicTies(t *testing.T) {
	names := make([]string, 5)
	for i := range names {
		names[i] = fmt.Sprintf("Плита %d", i+1)
	}
	r := newTestResolver(t, mock.NewCatalogStore(testTable, names...), loadedDictionary(t))

	for range 20 {
		res, err := r.Resolve(context.Background(), "плита", 0)
		require.NoError(t, err)
		require.Len(t, res.Results, 5)
		for i, result := range res.Results {
			assert.Equal(t, core.ID(i+1), result.EntryId)
		}
	}
}

func TestResolve_Degraded(t *testing.T) {
	base := mock.NewCatalogStore(testTable, "Пеноплэкс Комфорт 50мм")
	// Only the whole-phrase lookup of the exact generator contains spaces.
	store := failingStore(base, func(q string) bool { return strings.Contains(q, " ") })
	r := newTestResolver(t, store, loadedDictionary(t))

	res, err := r.Resolve(context.Background(), "пеноплэкс комфорт утеплитель плита", 20)
	require.NoError(t, err)
	assert.Equal(t, core.ArchetypeMixed, res.Query.Archetype)
	assert.True(t, res.Degraded)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, GeneratorExact, res.Failures[0].Generator)

	require.NotEmpty(t, res.Results)
	assert.Equal(t, core.ID(1), res.Results[0].EntryId)
	assert.False(t, res.Results[0].HasStrategy(core.StrategyExact))
	assert.True(t, res.Results[0].HasStrategy(core.StrategyFuzzy))
}

func TestResolve_AllGeneratorsFailed(t *testing.T) {
	base := mock.NewCatalogStore(testTable, "Пеноплэкс Комфорт 50мм")
	store := failingStore(base, func(string) bool { return true })
	dict := loadedDictionary(t, &core.SynonymEntry{
		Kind:      core.SynonymKindMaterial,
		Canonical: "пеноплэкс",
		Aliases:   []string{"xps"},
	})
	r := newTestResolver(t, store, dict)

	res, err := r.Resolve(context.Background(), "пеноплэкс", 20)
	require.ErrorIs(t, err, ErrPartialResult)

	var genErr *GeneratorError
	require.ErrorAs(t, err, &genErr)
	require.NotNil(t, res)
	assert.True(t, res.Degraded)
	assert.Empty(t, res.Results)
	require.Len(t, res.Failures, 3)
	assert.Equal(t, GeneratorExact, res.Failures[0].Generator)
	assert.Equal(t, GeneratorSemantic, res.Failures[1].Generator)
	assert.Equal(t, GeneratorFuzzy, res.Failures[2].Generator)
}

func TestResolve_DictionaryUnavailable(t *testing.T) {
	loadErr := errors.New("synonym table missing")
	broken := &mock.SynonymStore{
		CountSynonymsFunc: func(context.Context, core.SynonymKind) (int, error) {
			return 0, loadErr
		},
	}
	dict, err := dictionary.New(broken,
		dictionary.WithPaging(config.DictionaryConfig{PageSize: 10, MaxRetries: 1}))
	require.NoError(t, err)

	store := mock.NewCatalogStore(testTable, "Пеноплэкс Комфорт 50мм")
	r := newTestResolver(t, store, dict)
	ctx := context.Background()

	_, err = r.Resolve(ctx, "пеноплэкс", 20)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.ErrorIs(t, err, loadErr)
	assert.Empty(t, store.Queries(), "no lookups without a dictionary")

	_, err = r.ResolveUnit(ctx, "шт")
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = r.ResolveUnits(ctx, []string{"шт"})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestResolve_LookupTimeout(t *testing.T) {
	store := &mock.CatalogStore{
		SearchSubstringFunc: func(ctx context.Context, _, _ string, _ int) ([]*core.CatalogEntry, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	cfg := config.NewConfig(config.WithLookupTimeout(10 * time.Millisecond))
	r := newTestResolver(t, store, loadedDictionary(t), WithConfig(cfg))

	res, err := r.Resolve(context.Background(), "пеноплэкс", 20)
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	require.Len(t, res.Failures, 2)
	for _, f := range res.Failures {
		assert.ErrorIs(t, f, context.DeadlineExceeded)
	}
}

func TestResolveUnit(t *testing.T) {
	dict := loadedDictionary(t,
		&core.SynonymEntry{Kind: core.SynonymKindUnit, Canonical: "м³", Aliases: []string{"куб.м"}},
		&core.SynonymEntry{Kind: core.SynonymKindUnit, Canonical: "шт", Aliases: []string{"штука"}},
	)
	r := newTestResolver(t, mock.NewCatalogStore(testTable), dict)
	ctx := context.Background()

	match, err := r.ResolveUnit(ctx, "кубм")
	require.NoError(t, err)
	assert.Equal(t, "м³", match.Unit)
	assert.Equal(t, core.TierFuzzy, match.Tier)

	match, err = r.ResolveUnit(ctx, "литр")
	require.NoError(t, err)
	assert.False(t, match.Matched())
	assert.Equal(t, core.TierNone, match.Tier)

	matches, err := r.ResolveUnits(ctx, []string{"штука", "м³", "литр"})
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, core.TierSynonym, matches[0].Tier)
	assert.Equal(t, "шт", matches[0].Unit)
	assert.Equal(t, core.TierExact, matches[1].Tier)
	assert.Equal(t, core.TierNone, matches[2].Tier)
}

// recordingMonitor records hook calls in order.
type recordingMonitor struct {
	mu     sync.Mutex
	events []string
}

func (m *recordingMonitor) record(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *recordingMonitor) Start(raw string)         { m.record("start " + raw) }
func (m *recordingMonitor) AfterParse(q *core.Query) { m.record("parse " + q.Archetype.String()) }
func (m *recordingMonitor) GeneratorFinished(id GeneratorID, c []*core.Candidate, _ time.Duration) {
	m.record(fmt.Sprintf("finished %s %d", id, len(c)))
}
func (m *recordingMonitor) GeneratorFailed(id GeneratorID, _ error, _ time.Duration) {
	m.record("failed " + string(id))
}
func (m *recordingMonitor) Finish(res *Resolution) {
	m.record(fmt.Sprintf("finish %d", len(res.Results)))
}

func TestResolveWithMonitor(t *testing.T) {
	store := mock.NewCatalogStore(testTable, "Пеноплэкс Комфорт 50мм")
	r := newTestResolver(t, store, loadedDictionary(t), WithLogger(slog.Default()))
	monitor := &recordingMonitor{}

	_, err := r.ResolveWithMonitor(context.Background(), "пеноплэкс", 20, monitor)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"start пеноплэкс",
		"parse SIMPLE",
		"finished exact 1",
		"finished semantic 0",
		"finished fuzzy 1",
		"finish 1",
	}, monitor.events)
}

func TestResolve_Concurrent(t *testing.T) {
	store := mock.NewCatalogStore(testTable, "Пеноплэкс Комфорт 50мм", "Кран шаровой BVR-R DN32")
	r := newTestResolver(t, store, loadedDictionary(t))

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			raw := "пеноплэкс"
			want := core.ID(1)
			if i%2 == 1 {
				raw = "Кран BVR-R DN32"
				want = 2
			}
			res, err := r.Resolve(context.Background(), raw, 5)
			if assert.NoError(t, err) && assert.NotEmpty(t, res.Results) {
				assert.Equal(t, want, res.Results[0].EntryId)
			}
		}()
	}
	wg.Wait()
}

func TestResolver_ReleaseStopsWorkers(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store := mock.NewCatalogStore(testTable, "Пеноплэкс Комфорт 50мм")
	r, err := NewResolver(store, loadedDictionary(t))
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), "пеноплэкс", 20)
	require.NoError(t, err)

	r.Release()
	r.Release()
}
