package storage

import (
	"context"
	"fmt"

	"skillswap/backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// SQLRemote mirrors the entity collections into PostgreSQL tables. It has no
// push channel; live updates over it fall back to polling.
type SQLRemote struct {
	DB *gorm.DB
}

var _ Remote = (*SQLRemote)(nil)

// OpenPostgres connects with GORM. Chat messages may reference rooms that
// were never mirrored, so foreign keys are not created.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: postgres: %v", ErrRemoteUnavailable, err)
	}
	return db, nil
}

// NewSQLRemote creates the tables if needed.
func NewSQLRemote(db *gorm.DB) (*SQLRemote, error) {
	err := db.AutoMigrate(
		&models.Skill{},
		&models.Request{},
		&models.ChatRoom{},
		&models.Message{},
	)
	if err != nil {
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return &SQLRemote{DB: db}, nil
}

var byTimestamp = clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}

func (s *SQLRemote) PutSkill(ctx context.Context, skill models.Skill) error {
	return s.DB.WithContext(ctx).Save(&skill).Error
}

func (s *SQLRemote) DeleteSkill(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Skill{}).Error
}

func (s *SQLRemote) ListSkills(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if err := s.DB.WithContext(ctx).Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

func (s *SQLRemote) PutRequest(ctx context.Context, req models.Request) error {
	return s.DB.WithContext(ctx).Save(&req).Error
}

func (s *SQLRemote) ListRequests(ctx context.Context) ([]models.Request, error) {
	var reqs []models.Request
	if err := s.DB.WithContext(ctx).Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *SQLRemote) CreateChatRoom(ctx context.Context, room models.ChatRoom) error {
	return s.DB.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&room).Error
}

func (s *SQLRemote) ListChatRooms(ctx context.Context) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := s.DB.WithContext(ctx).
		Preload("Messages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order(byTimestamp)
		}).
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *SQLRemote) AppendMessage(ctx context.Context, chatID string, msg models.Message, lastActivity int64) error {
	msg.ChatID = chatID
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.ChatRoom{}).
			Where("id = ?", chatID).
			Update("last_activity", lastActivity).Error
	})
}

func (s *SQLRemote) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order(byTimestamp).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *SQLRemote) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
