package preset_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/netmesh/internal/config"
	"github.com/san-kum/netmesh/internal/mesh"
	"github.com/san-kum/netmesh/internal/preset"
)

var _ = Describe("Registry", func() {
	var (
		ctx      context.Context
		registry *preset.Registry
		logger   *slog.Logger
	)

	storeEntries := []TableEntry{
		Entry("memory store", func() preset.Store { return preset.NewMemoryStore() }),
		Entry("sqlite store", func() preset.Store {
			s, err := preset.OpenSQLite(":memory:")
			Expect(err).NotTo(HaveOccurred())
			return s
		}),
	}

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	AfterEach(func() {
		if registry != nil {
			Expect(registry.Close()).To(Succeed())
		}
	})

	DescribeTable("lists built-ins before user presets",
		func(newStore func() preset.Store) {
			registry = preset.NewRegistry(newStore(), logger)
			Expect(registry.Save(ctx, "Mine", config.DefaultConfig())).To(Succeed())

			list, err := registry.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			names := make([]string, len(list))
			for i, p := range list {
				names[i] = p.Name
			}
			Expect(names).To(Equal([]string{"Calm Blue", "Neon Cyber", "Minimal", "Mine"}))
			Expect(list[0].Builtin).To(BeTrue())
			Expect(list[3].Builtin).To(BeFalse())
		},
		storeEntries,
	)

	DescribeTable("saves full snapshots that apply cleanly",
		func(newStore func() preset.Store) {
			registry = preset.NewRegistry(newStore(), logger)
			snap := config.DefaultConfig().Merge(config.Patch{
				GridDensity:     config.Float(33),
				LineColor:       config.String("#112233"),
				InteractionType: config.ModePtr(mesh.ModeWave),
			})
			Expect(registry.Save(ctx, "Custom", snap)).To(Succeed())

			other := config.DefaultConfig().Merge(config.Patch{InteractionRadius: config.Float(60)})
			applied, err := registry.Apply(ctx, "Custom", other)
			Expect(err).NotTo(HaveOccurred())
			Expect(applied).To(Equal(snap))
		},
		storeEntries,
	)

	DescribeTable("overwrites a user preset on save",
		func(newStore func() preset.Store) {
			registry = preset.NewRegistry(newStore(), logger)
			Expect(registry.Save(ctx, "Mine", config.DefaultConfig())).To(Succeed())
			changed := config.DefaultConfig().Merge(config.Patch{GridDensity: config.Float(70)})
			Expect(registry.Save(ctx, "Mine", changed)).To(Succeed())

			p, err := registry.Get(ctx, "Mine")
			Expect(err).NotTo(HaveOccurred())
			Expect(*p.Patch.GridDensity).To(Equal(70.0))

			list, err := registry.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(4))
		},
		storeEntries,
	)

	DescribeTable("deletes only with confirmation",
		func(newStore func() preset.Store) {
			registry = preset.NewRegistry(newStore(), logger)
			Expect(registry.Save(ctx, "Mine", config.DefaultConfig())).To(Succeed())

			Expect(registry.Delete(ctx, "Mine", "mine")).To(MatchError(preset.ErrNotConfirmed))
			_, err := registry.Get(ctx, "Mine")
			Expect(err).NotTo(HaveOccurred())

			Expect(registry.Delete(ctx, "Mine", "Mine")).To(Succeed())
			_, err = registry.Get(ctx, "Mine")
			Expect(err).To(MatchError(preset.ErrNotFound))

			Expect(registry.Delete(ctx, "Mine", "Mine")).To(MatchError(preset.ErrNotFound))
		},
		storeEntries,
	)

	Describe("built-in presets", func() {
		BeforeEach(func() {
			registry = preset.NewRegistry(preset.NewMemoryStore(), logger)
		})

		It("refuses to be overwritten", func() {
			err := registry.Save(ctx, "Calm Blue", config.DefaultConfig())
			Expect(err).To(MatchError(preset.ErrBuiltin))

			p, err := registry.Get(ctx, "Calm Blue")
			Expect(err).NotTo(HaveOccurred())
			Expect(*p.Patch.LineColor).To(Equal("#3b82f6"))
		})

		It("refuses to be deleted even when confirmed", func() {
			Expect(registry.Delete(ctx, "Minimal", "Minimal")).To(MatchError(preset.ErrBuiltin))
			list, err := registry.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(3))
		})

		It("shadows a stored preset with the same name", func() {
			store := preset.NewMemoryStore()
			Expect(store.Put(ctx, preset.Record{Name: "Minimal", Config: config.DefaultConfig()})).To(Succeed())
			registry = preset.NewRegistry(store, logger)

			p, err := registry.Get(ctx, "Minimal")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Builtin).To(BeTrue())
			Expect(*p.Patch.GridDensity).To(Equal(60.0))

			list, err := registry.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(3))
		})
	})

	Describe("validation", func() {
		BeforeEach(func() {
			registry = preset.NewRegistry(nil, logger)
		})

		It("rejects empty names", func() {
			Expect(registry.Save(ctx, "   ", config.DefaultConfig())).To(MatchError(preset.ErrEmptyName))
		})

		It("rejects invalid configs", func() {
			bad := config.DefaultConfig().Merge(config.Patch{LineColor: config.String("red")})
			Expect(registry.Save(ctx, "Bad", bad)).To(MatchError(config.ErrInvalidColor))
		})

		It("reports unknown presets", func() {
			_, err := registry.Apply(ctx, "Ghost", config.DefaultConfig())
			Expect(err).To(MatchError(preset.ErrNotFound))
		})
	})
})

var _ = Describe("SQLiteStore", func() {
	It("persists across reopen", func() {
		ctx := context.Background()
		path := filepath.Join(GinkgoT().TempDir(), "nested", "presets.db")

		s, err := preset.OpenSQLite(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Put(ctx, preset.Record{Name: "Kept", Config: config.DefaultConfig()})).To(Succeed())
		Expect(s.Close()).To(Succeed())

		s, err = preset.OpenSQLite(path)
		Expect(err).NotTo(HaveOccurred())
		defer s.Close()

		rec, err := s.Get(ctx, "Kept")
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Config).To(Equal(config.DefaultConfig()))
		Expect(rec.UpdatedAt.IsZero()).To(BeFalse())
	})
})
