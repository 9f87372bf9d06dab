package config

import "time"

const defaultPort = 8080

const defaultLogLevel = "info"

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "test_db",
}

var defaultAllocation = Allocation{
	MaxWorkingHours:     15,
	MaxTravelDistanceKm: 200,
	MinutesPerKm:        3,
	MinDailyEarning:     50,
	Tier1Orders:         15,
	Tier1Payment:        35,
	Tier2Orders:         30,
	Tier2Payment:        42,
	DefaultPayment:      30,
	MinCandidateSize:    5,
	MaxCandidateSize:    30,
	Workers:             1,
}

var defaultSchedule = Schedule{
	Allocation: "0 7 * * *",
	Checkout:   "0 20 * * *",
	TimeZone:   "UTC",
	JobTimeout: 10 * time.Minute,
}

var defaultKafka = Kafka{
	GroupID: "delivery-allocation-worker",
	Topic:   "agent-checkins",
}

var defaultRedis = Redis{
	LockTTL: 15 * time.Minute,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       0.2,
	Burst:      2,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultStorageRetry = StorageRetry{
	MaxAttempts: 4,
	BaseDelay:   150 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultAllocation returns the default allocation policy settings.
func DefaultAllocation() Allocation {
	return defaultAllocation
}

// DefaultSchedule returns the default cron settings.
func DefaultSchedule() Schedule {
	return defaultSchedule
}

// DefaultRateLimit returns the default run trigger limiter settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultStorageRetry returns the default storage retry settings.
func DefaultStorageRetry() StorageRetry {
	return defaultStorageRetry
}

// Default returns a Config populated with defaults only.
func Default() Config {
	return Config{
		Port:         defaultPort,
		LogLevel:     defaultLogLevel,
		DB:           defaultDB,
		Allocation:   defaultAllocation,
		Schedule:     defaultSchedule,
		Kafka:        defaultKafka,
		Redis:        defaultRedis,
		RateLimit:    defaultRateLimit,
		StorageRetry: defaultStorageRetry,
	}
}
