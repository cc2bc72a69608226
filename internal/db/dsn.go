package db

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// BuildConnectionString converts a ConnectionConfig to a PostgreSQL URI for pgx.
// A Unix socket directory cannot sit in the URI authority, so it is passed
// as the host query parameter instead.
func BuildConnectionString(config *taxiload.ConnectionConfig) string {
	u := &url.URL{
		Scheme: "postgresql",
		Path:   "/" + config.Database,
	}

	query := url.Values{}
	if isSocketDir(config.Host) {
		query.Set("host", config.Host)
		query.Set("port", strconv.Itoa(config.Port))
	} else {
		u.Host = net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	}

	if config.Username != "" {
		if config.Password != "" {
			u.User = url.UserPassword(config.Username, config.Password)
		} else {
			u.User = url.User(config.Username)
		}
	}

	if config.SSLMode != "" {
		query.Set("sslmode", config.SSLMode)
	}
	query.Set("application_name", appName(config))
	if config.ConnectTimeout > 0 {
		seconds := int(config.ConnectTimeout.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		query.Set("connect_timeout", strconv.Itoa(seconds))
	}

	u.RawQuery = query.Encode()
	return u.String()
}

// BuildMySQLDSN converts a ConnectionConfig to a go-sql-driver/mysql DSN.
func BuildMySQLDSN(config *taxiload.ConnectionConfig) string {
	mc := mysql.NewConfig()
	mc.User = config.Username
	mc.Passwd = config.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	mc.DBName = config.Database
	mc.ParseTime = true
	mc.Timeout = config.ConnectTimeout
	mc.Params = map[string]string{"charset": "utf8mb4"}

	switch config.SSLMode {
	case "", "disable", "prefer", "allow":
		// driver default: plaintext
	case "verify-ca", "verify-full":
		mc.TLSConfig = "true"
	default:
		mc.TLSConfig = "skip-verify"
	}

	return mc.FormatDSN()
}

func isSocketDir(host string) bool {
	return strings.HasPrefix(host, "/")
}

func appName(config *taxiload.ConnectionConfig) string {
	if config.AppName != "" {
		return config.AppName
	}
	return taxiload.AppName
}

// DescribeTarget renders the connection target without credentials.
func DescribeTarget(config *taxiload.ConnectionConfig) string {
	return fmt.Sprintf("%s://%s@%s/%s", config.Driver, config.Username,
		net.JoinHostPort(config.Host, strconv.Itoa(config.Port)), config.Database)
}
