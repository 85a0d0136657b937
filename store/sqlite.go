package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/himanishpuri/echofp/errs"
	"github.com/himanishpuri/echofp/internal/logging"
)

// trackRow is the GORM model backing TrackMetadata.
type trackRow struct {
	ID            string `gorm:"primaryKey"`
	ExternalID    string `gorm:"index"`
	Artist        string
	Title         string
	Album         string
	ReleaseYear   int
	LengthSeconds float64
	CreatedAt     time.Time
}

// subFingerprintRow is one append-only sub-fingerprint.
type subFingerprintRow struct {
	ID                 uint   `gorm:"primaryKey"`
	TrackID            string `gorm:"index"`
	StartOffsetSeconds float64
	Bits               []byte
}

// hashEntryRow is one of the L derived hash-table entries per
// sub-fingerprint; fully rebuildable from subFingerprintRow.
type hashEntryRow struct {
	ID               uint   `gorm:"primaryKey"`
	TableIndex       int    `gorm:"index:idx_table_key"`
	Key              uint32 `gorm:"index:idx_table_key"`
	SubFingerprintID uint   `gorm:"index"`
}

// schemaRow holds the single persisted schema identifier row.
type schemaRow struct {
	ID    uint `gorm:"primaryKey"`
	Value string
}

// SQLiteStore is the default Store backend: GORM over the pure-Go
// glebarez/sqlite driver, grounded on the same stack the donor repo uses
// for its song/fingerprint persistence.
type SQLiteStore struct {
	db *gorm.DB
}

const batchSize = 1000

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %v", errs.ErrStoreFailure, err)
	}
	if err := db.AutoMigrate(&trackRow{}, &subFingerprintRow{}, &hashEntryRow{}, &schemaRow{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", errs.ErrStoreFailure, err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) InsertTrack(ctx context.Context, meta TrackMetadata) (TrackRef, error) {
	row := trackRow{
		ID:            uuid.NewString(),
		ExternalID:    meta.ExternalID,
		Artist:        meta.Artist,
		Title:         meta.Title,
		Album:         meta.Album,
		ReleaseYear:   meta.ReleaseYear,
		LengthSeconds: meta.LengthSeconds,
		CreatedAt:     time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("%w: insert track: %v", errs.ErrStoreFailure, err)
	}
	return TrackRef(row.ID), nil
}

func (s *SQLiteStore) InsertSubfingerprints(ctx context.Context, track TrackRef, entries []SubFingerprint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			// Idempotent per (track, start offset): an entry already stored
			// by an earlier attempt is skipped, so retries are safe.
			var existing int64
			if err := tx.Model(&subFingerprintRow{}).
				Where("track_id = ? AND start_offset_seconds = ?", string(track), e.StartOffsetSeconds).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}
			sfp := subFingerprintRow{TrackID: string(track), StartOffsetSeconds: e.StartOffsetSeconds, Bits: e.Bits}
			if err := tx.Create(&sfp).Error; err != nil {
				return err
			}
			hashRows := make([]hashEntryRow, len(e.HashKeys))
			for t, key := range e.HashKeys {
				hashRows[t] = hashEntryRow{TableIndex: t, Key: key, SubFingerprintID: sfp.ID}
			}
			if err := tx.CreateInBatches(hashRows, batchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: insert subfingerprints: %v", errs.ErrStoreFailure, err)
	}
	return nil
}

func (s *SQLiteStore) ReadSubfingerprintsByHash(ctx context.Context, tableIndex int, key uint32) ([]SubFpRef, error) {
	var rows []hashEntryRow
	if err := s.db.WithContext(ctx).Where("table_index = ? AND key = ?", tableIndex, key).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: lookup hash: %v", errs.ErrStoreFailure, err)
	}
	refs := make([]SubFpRef, len(rows))
	for i, r := range rows {
		refs[i] = SubFpRef(strconv.FormatUint(uint64(r.SubFingerprintID), 10))
	}
	return refs, nil
}

func (s *SQLiteStore) ReadFingerprintBits(ctx context.Context, ref SubFpRef) ([]byte, error) {
	id, err := strconv.ParseUint(string(ref), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid sub-fingerprint ref %q", errs.ErrStoreFailure, ref)
	}
	var row subFingerprintRow
	if err := s.db.WithContext(ctx).First(&row, uint(id)).Error; err != nil {
		return nil, fmt.Errorf("%w: read fingerprint bits: %v", errs.ErrStoreFailure, err)
	}
	return row.Bits, nil
}

func (s *SQLiteStore) TrackFor(ctx context.Context, ref SubFpRef) (TrackRef, error) {
	id, err := strconv.ParseUint(string(ref), 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: invalid sub-fingerprint ref %q", errs.ErrStoreFailure, ref)
	}
	var row subFingerprintRow
	if err := s.db.WithContext(ctx).Select("track_id").First(&row, uint(id)).Error; err != nil {
		return "", fmt.Errorf("%w: resolve track for sub-fingerprint: %v", errs.ErrStoreFailure, err)
	}
	return TrackRef(row.TrackID), nil
}

func (s *SQLiteStore) ReadTrack(ctx context.Context, ref TrackRef) (TrackMetadata, error) {
	var row trackRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", string(ref)).Error; err != nil {
		return TrackMetadata{}, fmt.Errorf("%w: read track: %v", errs.ErrStoreFailure, err)
	}
	return trackMetadataFrom(row), nil
}

func (s *SQLiteStore) ListTracks(ctx context.Context) ([]TrackMetadata, error) {
	var rows []trackRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list tracks: %v", errs.ErrStoreFailure, err)
	}
	out := make([]TrackMetadata, len(rows))
	for i, r := range rows {
		out[i] = trackMetadataFrom(r)
	}
	return out, nil
}

// DeleteTrack cascades: sub-fingerprints and their derived hash entries go
// with the track.
func (s *SQLiteStore) DeleteTrack(ctx context.Context, track TrackRef) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subIDs []uint
		if err := tx.Model(&subFingerprintRow{}).Where("track_id = ?", string(track)).Pluck("id", &subIDs).Error; err != nil {
			return err
		}
		if len(subIDs) > 0 {
			if err := tx.Where("sub_fingerprint_id IN ?", subIDs).Delete(&hashEntryRow{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", subIDs).Delete(&subFingerprintRow{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", string(track)).Delete(&trackRow{}).Error
	})
}

func (s *SQLiteStore) SchemaID(ctx context.Context) (string, error) {
	var row schemaRow
	err := s.db.WithContext(ctx).First(&row, 1).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: read schema id: %v", errs.ErrStoreFailure, err)
	}
	return row.Value, nil
}

func (s *SQLiteStore) SetSchemaID(ctx context.Context, id string) error {
	row := schemaRow{ID: 1, Value: id}
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("%w: save schema id: %v", errs.ErrStoreFailure, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func trackMetadataFrom(r trackRow) TrackMetadata {
	return TrackMetadata{
		ExternalID:    r.ExternalID,
		Artist:        r.Artist,
		Title:         r.Title,
		Album:         r.Album,
		ReleaseYear:   r.ReleaseYear,
		LengthSeconds: r.LengthSeconds,
	}
}

// NewSQLiteStoreWithLogger is NewSQLiteStore but routes GORM's SQL-level
// diagnostics through the given logger at DEBUG level, instead of
// discarding them.
func NewSQLiteStoreWithLogger(path string, l *logging.Logger) (*SQLiteStore, error) {
	s, err := NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	s.db.Logger = gormlogger.New(l.StdLogger(), gormlogger.Config{LogLevel: gormlogger.Info})
	return s, nil
}
