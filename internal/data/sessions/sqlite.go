package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/doomlearn/doomfeed-backend/internal/domain"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

type sessionRow struct {
	ID         string `gorm:"primaryKey"`
	SourceText string
	Platform   string
	Posts      datatypes.JSON
	CreatedAt  time.Time
}

func (sessionRow) TableName() string { return "sessions" }

// SQLiteRepo persists sessions in a single-file database so a restart does
// not lose them. Posts are stored as a JSON column rather than normalized
// rows; the app only ever reads and replaces the whole slice.
type SQLiteRepo struct {
	log *logger.Logger
	db  *gorm.DB
}

func NewSQLiteRepo(log *logger.Logger, path string) (*SQLiteRepo, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&sessionRow{}); err != nil {
		return nil, fmt.Errorf("migrate sessions: %w", err)
	}
	return &SQLiteRepo{
		log: log.With("service", "SessionSQLiteRepo"),
		db:  db,
	}, nil
}

func (r *SQLiteRepo) Create(ctx context.Context, s *domain.Session) error {
	posts, err := json.Marshal(s.GeneratedPosts)
	if err != nil {
		return err
	}
	row := sessionRow{
		ID:         s.ID,
		SourceText: s.SourceText,
		Platform:   s.Platform,
		Posts:      datatypes.JSON(posts),
		CreatedAt:  s.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *SQLiteRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	var row sessionRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	s := domain.Session{
		ID:         row.ID,
		SourceText: row.SourceText,
		Platform:   row.Platform,
		CreatedAt:  row.CreatedAt,
	}
	if len(row.Posts) > 0 {
		if err := json.Unmarshal(row.Posts, &s.GeneratedPosts); err != nil {
			return nil, fmt.Errorf("decode posts for session %s: %w", id, err)
		}
	}
	return &s, nil
}

func (r *SQLiteRepo) UpdatePosts(ctx context.Context, id string, posts []domain.Post) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).
		Model(&sessionRow{}).
		Where("id = ?", id).
		Update("posts", datatypes.JSON(raw))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}
