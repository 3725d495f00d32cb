package helper_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/go-redis/redis"
	"github.com/golang-migrate/migrate/v4"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/ory/dockertest"
	"github.com/ory/dockertest/docker"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/swipenest/swipenest/internal"
	"github.com/swipenest/swipenest/internal/config"
	"github.com/swipenest/swipenest/internal/entity"
	"github.com/swipenest/swipenest/pkg/http_util"
	"github.com/swipenest/swipenest/pkg/path"
)

// TestServerResources holds everything a suite needs to reach the
// server and its backing stores.
type TestServerResources struct {
	Cancel        context.CancelFunc
	Config        *config.Config
	Pool          *dockertest.Pool
	DBResource    *dockertest.Resource
	RedisResource *dockertest.Resource
	ORM           *gorm.DB
	Redis         *redis.Client
}

// SetupTestServer starts postgres and redis containers, migrates the
// schema and boots the service against them.
func SetupTestServer(ctx context.Context) (*TestServerResources, error) {
	ctx, cancel := context.WithCancel(ctx)
	var gormDB *gorm.DB
	var redisConn *redis.Client

	cfg, err := config.NewConfig("TEST")
	if err != nil {
		cancel()
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}

	pool, dbResource, redisResource, err := setupDockerResources(cfg)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("could not set up Docker resources: %w", err)
	}

	pool.MaxWait = 10 * time.Second
	if err := pool.Retry(func() error {
		gormDB, err = connectToPostgres(dbResource, cfg)
		return err
	}); err != nil {
		cancel()
		return nil, fmt.Errorf("could not connect to postgreSQL: %s", err)
	}

	if err := pool.Retry(func() error {
		redisConn, err = connectToRedis(redisResource)
		return err
	}); err != nil {
		cancel()
		return nil, fmt.Errorf("could not connect to redis: %s", err)
	}

	dbConnection, err := gormDB.DB()
	if err != nil {
		cancel()
		return nil, err
	}

	if err := runMigrations(dbConnection); err != nil {
		cancel()
		return nil, err
	}

	go internal.Run(ctx, os.Stdout, []string{"swipenest", "test"})

	if !waitForServer(ctx, cfg.Get("PORT")) {
		pool.Purge(redisResource)
		pool.Purge(dbResource)
		cancel()
		return nil, fmt.Errorf("server did not start within timeout")
	}

	return &TestServerResources{
		Cancel:        cancel,
		Config:        cfg,
		Pool:          pool,
		DBResource:    dbResource,
		RedisResource: redisResource,
		ORM:           gormDB,
		Redis:         redisConn,
	}, nil
}

func (resources *TestServerResources) CleanupTestServer() {
	if resources == nil {
		return
	}

	if resources.Cancel != nil {
		resources.Cancel()
	}

	if resources.Pool != nil {
		if resources.DBResource != nil {
			if err := resources.Pool.Purge(resources.DBResource); err != nil {
				log.Printf("Could not purge PostgreSQL: %s", err)
			}
		}

		if resources.RedisResource != nil {
			if err := resources.Pool.Purge(resources.RedisResource); err != nil {
				log.Printf("Could not purge Redis: %s", err)
			}
		}
	}
}

func setupDockerResources(cfg *config.Config) (*dockertest.Pool, *dockertest.Resource, *dockertest.Resource, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not connect to docker: %s", err)
	}

	dbOptions := &dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "14",
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", cfg.Get("POSTGRES_USER")),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", cfg.Get("POSTGRES_PASSWORD")),
			fmt.Sprintf("POSTGRES_DB=%s", cfg.Get("POSTGRES_DB_NAME")),
		},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"5432/tcp": {{HostIP: "127.0.0.1", HostPort: fmt.Sprintf("%s/tcp", cfg.Get("POSTGRES_PORT"))}},
		},
	}
	dbResource, err := pool.RunWithOptions(dbOptions)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not start postgres: %s", err)
	}

	redisOptions := &dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7",
		PortBindings: map[docker.Port][]docker.PortBinding{
			"6379/tcp": {{HostIP: "127.0.0.1", HostPort: fmt.Sprintf("%s/tcp", cfg.Get("REDIS_PORT"))}},
		},
	}
	redisResource, err := pool.RunWithOptions(redisOptions)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not start redis: %s", err)
	}

	return pool, dbResource, redisResource, nil
}

func connectToPostgres(dbResource *dockertest.Resource, cfg *config.Config) (*gorm.DB, error) {
	hostPort := strings.Split(dbResource.GetHostPort("5432/tcp"), ":")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		hostPort[0],
		hostPort[1],
		cfg.Get("POSTGRES_USER"),
		cfg.Get("POSTGRES_PASSWORD"),
		cfg.Get("POSTGRES_DB_NAME"))

	gormDB, err := gorm.Open(postgres.Open(dsn))
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	return gormDB, sqlDB.Ping()
}

func connectToRedis(redisResource *dockertest.Resource) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:" + redisResource.GetPort("6379/tcp"),
	})
	return client, client.Ping().Err()
}

func runMigrations(db *sql.DB) error {
	driver, err := migratePostgres.WithInstance(db, &migratePostgres.Config{})
	if err != nil {
		return err
	}

	basePath, err := os.Getwd()
	if err != nil {
		return err
	}

	migrationPath, err := path.FindRoot(basePath, "migrations", true)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationPath+"/migrations",
		"postgres", driver)
	if err != nil {
		return err
	}

	return m.Up()
}

func waitForServer(ctx context.Context, port string) bool {
	loopContext, cancelLoopContext := context.WithTimeout(ctx, 120*time.Second)
	defer cancelLoopContext()

	for {
		select {
		case <-loopContext.Done():
			return false
		default:
			resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
			if err != nil {
				time.Sleep(1 * time.Second)
				continue
			}
			resp.Body.Close()

			if resp.StatusCode == http.StatusOK {
				log.Println("server is ready")
				return true
			}
			time.Sleep(1 * time.Second)
		}
	}
}

func SignUpUser(t *testing.T, username, password, email string) (entity.SignUpResponse, error) {
	reqBody := entity.CreateUserRequest{
		Name:     "testname",
		Username: username,
		Password: password,
		Email:    email,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, "http://localhost:8080/v1/auth/sign-up", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	response := http_util.HTTPResponse[entity.SignUpResponse]{}
	response, err = http_util.DecodeBody[http_util.HTTPResponse[entity.SignUpResponse]](bodyBytes, response)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return response.Data, nil
}

func SignInUser(t *testing.T, email, username, password string) (token string, err error) {
	reqBody := entity.SignInRequest{
		Email:    email,
		Username: username,
		Password: password,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, "http://localhost:8080/v1/auth/sign-in", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	response := http_util.HTTPResponse[entity.SignInResponse]{}
	response, err = http_util.DecodeBody[http_util.HTTPResponse[entity.SignInResponse]](bodyBytes, response)
	if err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	return response.Data.Token, nil
}

// PopulateListings seeds active rental listings owned by freshly faked
// landlords. The first `premium` of them get a premium_plus owner tier.
func PopulateListings(db *gorm.DB, count, premium int) ([]entity.Listing, error) {
	listings := make([]entity.Listing, 0, count)

	for i := 0; i < count; i++ {
		owner := entity.User{
			Name:     faker.Name(),
			Email:    faker.Email(),
			Username: faker.Username(),
			Password: faker.Password(),
			Tier:     entity.TierFree,
		}
		tier := entity.TierFree
		if i < premium {
			owner.Tier = entity.TierPremiumPlus
			tier = entity.TierPremiumPlus
		}
		if err := db.Create(&owner).Error; err != nil {
			return nil, err
		}

		beds := 2
		listing := entity.Listing{
			ID:           uuid.NewString(),
			OwnerID:      owner.ID,
			Title:        faker.Sentence(),
			Category:     entity.CategoryProperty,
			ListingType:  entity.ListingTypeRent,
			Price:        1500,
			Beds:         &beds,
			LocationZone: "downtown",
			ImageURLs:    []string{"https://img.example.com/" + uuid.NewString() + ".jpg"},
			Amenities:    []string{"parking", "gym"},
			OwnerTier:    tier,
			Active:       true,
			CreatedAt:    time.Now().Add(-time.Duration(i) * time.Minute),
		}
		if err := db.Create(&listing).Error; err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	return listings, nil
}
