package seed

import (
	"context"
	"errors"

	"github.com/Vignesh4110/finance-modernization/internal/clock"
	"github.com/Vignesh4110/finance-modernization/internal/config"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const insertBatchSize = 500

var ErrAlreadySeeded = errors.New("already_seeded")

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	Clock clock.Clock
	GenID *snowflake.Node
}

// Seeder loads the deterministic sample dataset into an empty database.
type Seeder struct {
	db    *gorm.DB
	log   *zap.Logger
	cfg   config.Config
	clock clock.Clock
	genID *snowflake.Node
}

func New(p Params) *Seeder {
	return &Seeder{
		db:    p.DB,
		log:   p.Log.Named("seed"),
		cfg:   p.Cfg,
		clock: p.Clock,
		genID: p.GenID,
	}
}

// Ensure seeds the database once. A non-empty customer table means the
// data is already there and the call is a no-op.
func (s *Seeder) Ensure(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM customers`).Scan(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.log.Debug("seed skipped, customers already present", zap.Int64("count", count))
		return nil
	}
	return s.load(ctx)
}

// Reseed wipes the transactional tables and reloads the sample dataset.
func (s *Seeder) Reseed(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"payments", "invoices", "customers", "ar_summary_snapshots"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		return s.loadTx(ctx, tx)
	})
}

func (s *Seeder) load(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.loadTx(ctx, tx)
	})
}

func (s *Seeder) loadTx(ctx context.Context, tx *gorm.DB) error {
	gen := NewGenerator(s.cfg.SeedRandSeed, s.genID, s.clock.Now())
	dataset := gen.Generate(DefaultCustomers, DefaultInvoices)

	if err := tx.WithContext(ctx).CreateInBatches(dataset.Customers, insertBatchSize).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).CreateInBatches(dataset.Invoices, insertBatchSize).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).CreateInBatches(dataset.Payments, insertBatchSize).Error; err != nil {
		return err
	}

	s.log.Info("sample dataset loaded",
		zap.Int("customers", len(dataset.Customers)),
		zap.Int("invoices", len(dataset.Invoices)),
		zap.Int("payments", len(dataset.Payments)),
	)
	return nil
}
