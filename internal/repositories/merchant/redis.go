package merchant

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jianghu-rpg/jianghu-api/internal/errors"
	"github.com/jianghu-rpg/jianghu-api/internal/pkg/clock"
	redisclient "github.com/jianghu-rpg/jianghu-api/internal/redis"
)

const (
	merchantKeyPrefix  = "merchant:"
	merchantSlugPrefix = "merchant:slug:"
	merchantSetKey     = "merchant:all"
	merchantCounterKey = "merchant:next_id"

	productKeyPrefix   = "product:"
	productIndexPrefix = "product:merchant:"
	productCounterKey  = "product:next_id"
	orderKeyPrefix     = "order:"
	orderCounterKey    = "order:next_id"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis merchant repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a Redis-backed merchant repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	return &redisRepository{client: cfg.Client, clock: c}, nil
}

func (r *redisRepository) CreateMerchant(ctx context.Context, input CreateMerchantInput) (*Merchant, error) {
	vb := errors.NewValidationBuilder()
	if input.Name == "" {
		vb.RequiredField("name")
	}
	if input.Slug == "" {
		vb.RequiredField("slug")
	}
	if input.Password == "" {
		vb.RequiredField("password")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	slugKey := merchantSlugPrefix + input.Slug
	exists, err := r.client.Exists(ctx, slugKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check slug")
	}
	if exists > 0 {
		return nil, errors.AlreadyExistsf("merchant with slug %q already exists", input.Slug)
	}

	id, err := r.client.Incr(ctx, merchantCounterKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to allocate merchant id")
	}

	m := &Merchant{
		ID:        id,
		Name:      input.Name,
		Slug:      input.Slug,
		Password:  input.Password,
		CreatedAt: r.clock.Now().UnixMilli(),
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal merchant")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, merchantKey(id), data, 0)
	pipe.Set(ctx, slugKey, id, 0)
	pipe.SAdd(ctx, merchantSetKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create merchant")
	}
	return m, nil
}

func (r *redisRepository) GetMerchantBySlug(ctx context.Context, slug string) (*Merchant, error) {
	if slug == "" {
		return nil, errors.InvalidArgument("slug cannot be empty")
	}

	id, err := r.client.Get(ctx, merchantSlugPrefix+slug).Int64()
	if err != nil {
		if err == goredis.Nil {
			return nil, errors.NotFoundf("merchant with slug %q not found", slug)
		}
		return nil, errors.Wrapf(err, "failed to resolve slug")
	}
	return r.getMerchant(ctx, id)
}

func (r *redisRepository) ListMerchants(ctx context.Context) ([]*Merchant, error) {
	ids, err := r.client.SMembers(ctx, merchantSetKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list merchants")
	}

	merchants := make([]*Merchant, 0, len(ids))
	for _, raw := range ids {
		var id int64
		if _, err := fmt.Sscanf(raw, "%d", &id); err != nil {
			continue
		}
		m, err := r.getMerchant(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		merchants = append(merchants, m)
	}
	sort.Slice(merchants, func(i, j int) bool { return merchants[i].ID > merchants[j].ID })
	return merchants, nil
}

func (r *redisRepository) getMerchant(ctx context.Context, id int64) (*Merchant, error) {
	result, err := r.client.Get(ctx, merchantKey(id)).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, errors.NotFoundf("merchant %d not found", id)
		}
		return nil, errors.Wrapf(err, "failed to get merchant")
	}

	var m Merchant
	if err := json.Unmarshal([]byte(result), &m); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal merchant")
	}
	return &m, nil
}

func (r *redisRepository) CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error) {
	vb := errors.NewValidationBuilder()
	if input.MerchantID == 0 {
		vb.RequiredField("merchant_id")
	}
	if input.Title == "" {
		vb.RequiredField("title")
	}
	if input.Price <= 0 {
		vb.Field("price", "must be positive")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if _, err := r.getMerchant(ctx, input.MerchantID); err != nil {
		return nil, err
	}

	id, err := r.client.Incr(ctx, productCounterKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to allocate product id")
	}

	p := &Product{
		ID:          id,
		MerchantID:  input.MerchantID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		CreatedAt:   r.clock.Now().UnixMilli(),
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal product")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, productKey(id), data, 0)
	pipe.SAdd(ctx, productIndexKey(input.MerchantID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create product")
	}
	return p, nil
}

func (r *redisRepository) ListProductsByMerchant(ctx context.Context, merchantID int64) ([]*Product, error) {
	if merchantID == 0 {
		return nil, errors.InvalidArgument("merchant_id cannot be empty")
	}

	ids, err := r.client.SMembers(ctx, productIndexKey(merchantID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list products")
	}

	products := make([]*Product, 0, len(ids))
	for _, raw := range ids {
		result, err := r.client.Get(ctx, productKeyPrefix+raw).Result()
		if err != nil {
			if err == goredis.Nil {
				continue
			}
			return nil, errors.Wrapf(err, "failed to get product")
		}
		var p Product
		if err := json.Unmarshal([]byte(result), &p); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal product")
		}
		products = append(products, &p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (r *redisRepository) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	vb := errors.NewValidationBuilder()
	if input.MerchantID == 0 {
		vb.RequiredField("merchant_id")
	}
	if input.BuyerID == 0 {
		vb.RequiredField("buyer_id")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	id, err := r.client.Incr(ctx, orderCounterKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to allocate order id")
	}

	o := &Order{
		ID:         id,
		MerchantID: input.MerchantID,
		BuyerID:    input.BuyerID,
		BuyerName:  input.BuyerName,
		Items:      input.Items,
		CreatedAt:  r.clock.Now().UnixMilli(),
	}
	data, err := json.Marshal(o)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal order")
	}

	if err := r.client.Set(ctx, orderKey(id), data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to create order")
	}
	return o, nil
}

func merchantKey(id int64) string     { return fmt.Sprintf("%s%d", merchantKeyPrefix, id) }
func productKey(id int64) string      { return fmt.Sprintf("%s%d", productKeyPrefix, id) }
func productIndexKey(id int64) string { return fmt.Sprintf("%s%d", productIndexPrefix, id) }
func orderKey(id int64) string        { return fmt.Sprintf("%s%d", orderKeyPrefix, id) }
