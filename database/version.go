package database

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/mod/semver"

	"github.com/gaborage/slimgen/database/types"
)

// Oldest servers whose catalogs expose everything the introspector reads.
// PostgreSQL 10 adds identity columns.
var minServerVersions = map[types.Vendor]string{
	types.MySQL:      "v5.7.0",
	types.PostgreSQL: "v10.0.0",
}

var versionPrefix = regexp.MustCompile(`^\d+(\.\d+){0,2}`)

// ServerVersion returns the version string reported by the server.
func ServerVersion(ctx context.Context, db types.Interface) (string, error) {
	query := "SELECT VERSION()"
	if db.DatabaseType() == types.PostgreSQL {
		query = "SHOW server_version"
	}
	var version string
	if err := db.QueryRow(ctx, query).Scan(&version); err != nil {
		return "", fmt.Errorf("failed to read server version: %w", err)
	}
	return version, nil
}

// CheckServerVersion fails when version is older than the minimum for
// vendor or cannot be parsed. Distribution suffixes such as
// "-0ubuntu0.22.04.1" or " (Debian 16.2-1)" are ignored.
func CheckServerVersion(vendor types.Vendor, version string) error {
	minVersion, ok := minServerVersions[vendor]
	if !ok {
		return fmt.Errorf("unsupported database type: %s (supported: %v)", vendor, SupportedDatabaseTypes())
	}
	v := canonicalVersion(version)
	if v == "" {
		return fmt.Errorf("unrecognized %s server version %q", vendor, version)
	}
	if semver.Compare(v, minVersion) < 0 {
		return fmt.Errorf("%s server version %s is older than the supported %s", vendor, version, minVersion[1:])
	}
	return nil
}

func canonicalVersion(raw string) string {
	prefix := versionPrefix.FindString(raw)
	if prefix == "" {
		return ""
	}
	return semver.Canonical("v" + prefix)
}
