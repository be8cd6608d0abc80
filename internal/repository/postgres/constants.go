package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errUserNotFound    = "user not found"
	errBucketNotFound  = "bucket not found"
	errObjectNotFound  = "object not found"
	errVersionNotFound = "version not found"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"
	errFailedStartTransactionFmt     = "failed to start transaction: %w"
	errFailedCommitTransactionFmt    = "failed to commit transaction: %w"

	errFailedGetUserFmt = "failed to get user: %w"

	errFailedCreateBucketFmt = "failed to create bucket: %w"
	errFailedGetBucketFmt    = "failed to get bucket: %w"
	errFailedDeleteBucketFmt = "failed to delete bucket: %w"

	errFailedCreateObjectFmt = "failed to create object: %w"
	errFailedGetObjectFmt    = "failed to get object: %w"
	errFailedUpdateObjectFmt = "failed to update object: %w"
	errFailedDeleteObjectFmt = "failed to delete object: %w"

	errFailedAppendVersionFmt = "failed to append version: %w"
	errFailedUpsertVersionFmt = "failed to upsert null version: %w"
	errFailedDeleteVersionFmt = "failed to delete version: %w"
	errFailedCountVersionsFmt = "failed to count versions: %w"
	errFailedListVersionsFmt  = "failed to list versions: %w"
	errFailedScanVersionFmt   = "failed to scan version: %w"

	errFailedSearchGrantsFmt = "failed to search grants: %w"
	errFailedInsertGrantsFmt = "failed to insert grants: %w"
	errFailedDeleteGrantsFmt = "failed to delete grants: %w"
	errFailedScanGrantFmt    = "failed to scan grant: %w"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedStartTransaction     = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
	errFailedCommitTransaction    = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }

	errFailedGetUser = func(err error) error { return fmt.Errorf(errFailedGetUserFmt, err) }

	errFailedCreateBucket = func(err error) error { return fmt.Errorf(errFailedCreateBucketFmt, err) }
	errFailedGetBucket    = func(err error) error { return fmt.Errorf(errFailedGetBucketFmt, err) }
	errFailedDeleteBucket = func(err error) error { return fmt.Errorf(errFailedDeleteBucketFmt, err) }

	errFailedCreateObject = func(err error) error { return fmt.Errorf(errFailedCreateObjectFmt, err) }
	errFailedGetObject    = func(err error) error { return fmt.Errorf(errFailedGetObjectFmt, err) }
	errFailedUpdateObject = func(err error) error { return fmt.Errorf(errFailedUpdateObjectFmt, err) }
	errFailedDeleteObject = func(err error) error { return fmt.Errorf(errFailedDeleteObjectFmt, err) }

	errFailedAppendVersion = func(err error) error { return fmt.Errorf(errFailedAppendVersionFmt, err) }
	errFailedUpsertVersion = func(err error) error { return fmt.Errorf(errFailedUpsertVersionFmt, err) }
	errFailedDeleteVersion = func(err error) error { return fmt.Errorf(errFailedDeleteVersionFmt, err) }
	errFailedCountVersions = func(err error) error { return fmt.Errorf(errFailedCountVersionsFmt, err) }
	errFailedListVersions  = func(err error) error { return fmt.Errorf(errFailedListVersionsFmt, err) }
	errFailedScanVersion   = func(err error) error { return fmt.Errorf(errFailedScanVersionFmt, err) }

	errFailedSearchGrants = func(err error) error { return fmt.Errorf(errFailedSearchGrantsFmt, err) }
	errFailedInsertGrants = func(err error) error { return fmt.Errorf(errFailedInsertGrantsFmt, err) }
	errFailedDeleteGrants = func(err error) error { return fmt.Errorf(errFailedDeleteGrantsFmt, err) }
	errFailedScanGrant    = func(err error) error { return fmt.Errorf(errFailedScanGrantFmt, err) }
)
