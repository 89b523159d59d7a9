package model_test

import (
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Status int

const (
	StatusDraft Status = iota
	StatusActive
	StatusArchived
)

type Account struct {
	Id       int64
	OwnerId  int64
	Name     string  `jorm:"column:name;size:64;notnull;collate:NOCASE"`
	Email    *string `jorm:"unique"`
	Status   Status  `jorm:"default:1"`
	Previous *Status
	Balance  float64 `jorm:"index:idx_balance(2)"`
	Note     string  `jorm:"-"`
	Computed string  `jorm:"readonly"`
	secret   string
}

type Document struct {
	Key   uuid.UUID `jorm:"pk auto"`
	Title string
}

type Counter struct {
	ID   int32 `jorm:"pk auto"`
	Hits uint16
}

type Ticket struct {
	ID   *int64 `jorm:"pk;auto"`
	Code string
}

type Audit struct {
	CreatedBy string
	UpdatedBy string
}

type Post struct {
	ID int64 `jorm:"pk auto"`
	Audit
	Title string
}

func (Post) TableName() string { return "posts" }

type Twin struct {
	A int `jorm:"pk"`
	B int `jorm:"pk auto"`
}

type Empty struct {
	hidden int
}

type Wrapped struct {
	Nick    sql.NullString
	Seen    mysql.NullTime
	Expires pq.NullTime
	Score   sql.Null[float64]
	Ref     *uuid.UUID
}

type Level uint8

type Gauge struct {
	Key   int8 `jorm:"pk auto"`
	Count uint8
	Ratio float32
	Total int64
	On    bool
	Level Level
}
