package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
)

type Config struct {
	Host         string `default:"localhost"`
	Port         string `default:"3306"`
	User         string `default:"kiosk"`
	Password     string
	Database     string `default:"kiosk"`
	MaxOpenConns int    `split_words:"true" default:"5"`
	ConnTimeout  int    `split_words:"true" default:"5"`
}

// DSN renders the go-sql-driver DSN for this config.
func (c *Config) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Host + ":" + c.Port
	cfg.DBName = c.Database
	cfg.ParseTime = true
	cfg.Timeout = time.Duration(c.ConnTimeout) * time.Second
	return cfg.FormatDSN()
}

func (c *Config) New() (*sql.DB, error) {
	db, err := sql.Open("mysql", c.DSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(c.ConnTimeout)*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
