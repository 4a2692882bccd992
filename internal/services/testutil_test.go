package services

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/codequest/codequest-backend/internal/genai"
	"github.com/codequest/codequest-backend/internal/logger"
)

// Test tables mirror the gorm models but are created by hand: the
// production schema relies on Postgres uuid defaults that sqlite cannot
// express, and the services set IDs themselves anyway. Columns whose
// gorm tags carry a default are omitted from inserts while zero, so the
// DDL must supply the defaults the models expect, timestamps included.
var testSchema = []string{
	`CREATE TABLE user (
		id TEXT PRIMARY KEY,
		first_name TEXT,
		last_name TEXT,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at DATETIME
	)`,
	`CREATE TABLE user_token (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		access_token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at DATETIME
	)`,
	`CREATE TABLE challenge (
		id TEXT PRIMARY KEY,
		created_by TEXT NOT NULL,
		topic TEXT NOT NULL,
		sub_topic TEXT,
		difficulty TEXT NOT NULL,
		title TEXT NOT NULL,
		question TEXT NOT NULL,
		options TEXT NOT NULL,
		correct_answer_index INTEGER NOT NULL,
		explanation TEXT NOT NULL,
		time_complexity TEXT,
		space_complexity TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at DATETIME
	)`,
	`CREATE TABLE challenge_quota (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		quota_remaining INTEGER NOT NULL DEFAULT 50,
		last_reset_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at DATETIME
	)`,
	`CREATE TABLE answer_record (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		challenge_id TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		is_correct INTEGER NOT NULL,
		response_time REAL,
		answered_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at DATETIME
	)`,
	`CREATE TABLE challenge_bookmark (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		challenge_id TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at DATETIME,
		UNIQUE(user_id, challenge_id)
	)`,
	`CREATE TABLE daily_challenge (
		id TEXT PRIMARY KEY,
		challenge_id TEXT NOT NULL,
		date DATETIME NOT NULL UNIQUE,
		featured INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at DATETIME
	)`,
	`CREATE TABLE user_daily_challenge (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		daily_challenge_id TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		completed_at DATETIME,
		correct INTEGER,
		streak_bonus INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		deleted_at DATETIME,
		UNIQUE(user_id, daily_challenge_id)
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, ddl := range testSchema {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("failed to create test table: %v", err)
		}
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return log
}

type stubGenerator struct {
	calls int
}

func (s *stubGenerator) Generate(ctx context.Context, topic, difficulty, subTopic string) genai.ChallengeRecord {
	s.calls++
	return genai.ChallengeRecord{
		Title:              "Stub " + topic,
		Question:           "Given an input, write a function that should return the answer.",
		Options:            []string{"a", "b", "c", "d"},
		CorrectAnswerIndex: 1,
		Explanation:        "Option b is correct.",
		TimeComplexity:     "O(n)",
		SpaceComplexity:    "O(1)",
	}
}
