package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Herzon-Palma/Coders/cart/models"
	"github.com/Herzon-Palma/Coders/pkg/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// CartRepository loads and saves cart aggregates. Carts are session-scoped
// documents with a TTL, so Redis is the store of record for them.
type CartRepository interface {
	FindByID(ctx context.Context, id domain.CartID) (*models.Cart, error)
	FindActiveByCustomer(ctx context.Context, customerID domain.CustomerID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, id domain.CartID) error
}

type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{client: client, ttl: ttl}
}

// NewRedisClient connects using a redis:// URL.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func cartKey(id domain.CartID) string { return "cart:" + id.String() }

func customerKey(id domain.CustomerID) string { return "cart:customer:" + id.String() }

func (r *RedisCartRepository) FindByID(ctx context.Context, id domain.CartID) (*models.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart %s: %w", id, err)
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", id, err)
	}
	return &cart, nil
}

// FindActiveByCustomer resolves the customer's current active cart through
// the customer index key.
func (r *RedisCartRepository) FindActiveByCustomer(ctx context.Context, customerID domain.CustomerID) (*models.Cart, error) {
	cartID, err := r.client.Get(ctx, customerKey(customerID)).Result()
	if err == redis.Nil {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get active cart for customer %s: %w", customerID, err)
	}

	id, err := domain.ParseCartID(cartID)
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Save writes the cart document and keeps the customer index pointing at
// the active cart. Once the cart leaves the Active state, the index is
// dropped so the customer's next session starts a fresh cart.
func (r *RedisCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", cart.ID, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, cartKey(cart.ID), data, r.ttl)
	if cart.IsActive() {
		pipe.Set(ctx, customerKey(cart.CustomerID), cart.ID.String(), r.ttl)
	} else {
		pipe.Del(ctx, customerKey(cart.CustomerID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save cart %s: %w", cart.ID, err)
	}
	return nil
}

func (r *RedisCartRepository) Delete(ctx context.Context, id domain.CartID) error {
	cart, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, cartKey(id))
	pipe.Del(ctx, customerKey(cart.CustomerID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete cart %s: %w", id, err)
	}
	return nil
}
