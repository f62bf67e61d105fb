package sqlstore

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// MySQLDSN accepts either a native go-sql-driver DSN or a mysql:// /
// mariadb:// URL and returns a driver DSN with parseTime enabled, so DATE
// columns scan as time.Time.
func MySQLDSN(dsn string) (string, error) {
	var (
		cfg *mysql.Config
		err error
	)
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		cfg, err = mysqlConfigFromURL(dsn)
	} else {
		cfg, err = mysql.ParseDSN(dsn)
	}
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.InterpolateParams = true
	return cfg.FormatDSN(), nil
}

func mysqlConfigFromURL(raw string) (*mysql.Config, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	cfg := mysql.NewConfig()
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if cfg.User == "" || cfg.Addr == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("incomplete dsn: user, host and database are required")
	}
	return cfg, nil
}
