//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/sequence"
)

const orderPlacedQueue = "storefront-it.order.placed.v1"

func TestStorefrontIntegration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	pgC, dbURL := startPostgres(ctx, t)
	defer terminateContainer(t, pgC)

	rabbitC, rabbitURL := startRabbitMQ(ctx, t)
	defer terminateContainer(t, rabbitC)

	require.NoError(t, db.RunMigrations(dbURL, zap.NewNop()))

	conn := dialAMQP(t, rabbitURL)
	defer conn.Close()
	bindOrderPlacedQueue(t, conn)

	app := startStorefront(ctx, t, dbURL, conn)
	defer app.stop()

	client := &http.Client{Timeout: 5 * time.Second}

	var stores struct {
		Segments []string        `json:"segments"`
		Stores   []catalog.Store `json:"stores"`
	}
	getJSON(ctx, t, client, app.baseURL+"/api/stores?segment=Moda", http.StatusOK, &stores)
	require.Contains(t, stores.Segments, "Moda")
	require.Len(t, stores.Stores, 1)

	var products struct {
		Products []catalog.Product `json:"products"`
	}
	getJSON(ctx, t, client, app.baseURL+"/api/stores/Moda%20Centro/products?q=jeans", http.StatusOK, &products)
	require.Len(t, products.Products, 1)
	jeans := products.Products[0]

	sendJSON(ctx, t, client, http.MethodPost, app.baseURL+"/api/cart/items",
		map[string]any{"product": jeans, "quantity": 2}, http.StatusOK, nil)

	var placed struct {
		ID    string `json:"id"`
		Total string `json:"total"`
	}
	sendJSON(ctx, t, client, http.MethodPost, app.baseURL+"/api/checkout", nil, http.StatusCreated, &placed)
	require.Regexp(t, `^PEDIDO-\d{4}-\d{4}$`, placed.ID)
	require.Equal(t, "R$ 319,80", placed.Total)

	var history []struct {
		ID    string       `json:"id"`
		Lines []order.Line `json:"lines"`
	}
	getJSON(ctx, t, client, app.baseURL+"/api/orders/history", http.StatusOK, &history)
	require.Len(t, history, 1)
	require.Equal(t, placed.ID, history[0].ID)
	require.Len(t, history[0].Lines, 1)
	require.Equal(t, 2, history[0].Lines[0].Quantity)

	env := waitForOrderPlaced(ctx, t, conn)
	require.NoError(t, env.Validate(events.EventTypeOrderPlaced, 1))
	require.Equal(t, placed.ID, env.PartitionKey)
	require.Equal(t, int64(1), env.Sequence)

	sendJSON(ctx, t, client, http.MethodPost, app.baseURL+"/api/checkout", nil, http.StatusUnprocessableEntity, nil)
}

type storefrontApp struct {
	baseURL string
	stop    func()
}

func startStorefront(ctx context.Context, t *testing.T, dbURL string, conn *amqp.Connection) *storefrontApp {
	t.Helper()

	pool, err := db.NewPool(ctx, dbURL)
	require.NoError(t, err)

	pub, err := events.NewPublisher(conn, sequence.NewRepository(pool), events.PublisherOptions{})
	require.NoError(t, err)

	cartStore := cart.NewStore()
	orderStore := order.NewStore()
	orderRepo := order.NewPostgresRepository(pool, zap.NewNop())
	svc := checkout.NewService(cartStore, orderStore, orderRepo, checkout.Options{Publisher: pub})

	router := httpapi.NewRouter(httpapi.Deps{
		Session:  httpapi.NewSession(cartStore, orderStore),
		Catalog:  catalog.NewPostgresRepository(pool),
		Checkout: svc,
		History:  orderRepo,
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &http.Server{Handler: router, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	return &storefrontApp{
		baseURL: fmt.Sprintf("http://%s", ln.Addr().String()),
		stop: func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
			_ = pub.Close()
			pool.Close()

			select {
			case err := <-errCh:
				t.Logf("server error: %v", err)
			default:
			}
		},
	}
}

func startPostgres(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_USER": "postgres", "POSTGRES_DB": "storefront"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return container, fmt.Sprintf("postgres://postgres:postgres@%s:%s/storefront?sslmode=disable", host, mappedPort.Port())
}

func startRabbitMQ(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3-management",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "5672/tcp")
	require.NoError(t, err)

	return container, fmt.Sprintf("amqp://guest:guest@%s:%s/", host, mappedPort.Port())
}

func terminateContainer(t *testing.T, c testcontainers.Container) {
	t.Helper()
	terminateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, c.Terminate(terminateCtx))
}

func dialAMQP(t *testing.T, url string) *amqp.Connection {
	t.Helper()
	conn, err := events.Dial(url)
	require.NoError(t, err)
	return conn
}

func bindOrderPlacedQueue(t *testing.T, conn *amqp.Connection) {
	t.Helper()

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	require.NoError(t, ch.ExchangeDeclare(events.EventsExchange, "topic", true, false, false, false, nil))
	_, err = ch.QueueDeclare(orderPlacedQueue, true, false, false, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(orderPlacedQueue, events.OrderPlacedRoutingKey, events.EventsExchange, false, nil))
}

func waitForOrderPlaced(ctx context.Context, t *testing.T, conn *amqp.Connection) events.EventEnvelope {
	t.Helper()

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	pollCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	backoff := 50 * time.Millisecond
	for {
		select {
		case <-pollCtx.Done():
			t.Fatalf("timed out waiting for OrderPlaced: %v", pollCtx.Err())
		default:
		}

		msg, ok, err := ch.Get(orderPlacedQueue, true)
		require.NoError(t, err)
		if ok {
			env, err := events.DecodeEnvelope(msg.Body)
			require.NoError(t, err)
			return env
		}

		time.Sleep(backoff)
		if backoff < time.Second {
			backoff *= 2
		}
	}
}

func getJSON(ctx context.Context, t *testing.T, client *http.Client, url string, wantStatus int, dest any) {
	t.Helper()
	sendJSON(ctx, t, client, http.MethodGet, url, nil, wantStatus, dest)
}

func sendJSON(ctx context.Context, t *testing.T, client *http.Client, method, url string, body any, wantStatus int, dest any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, wantStatus, resp.StatusCode)
	if dest != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	}
}
