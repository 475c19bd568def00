package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/telvista/crm-backoffice/internal/core/domain"
	"github.com/telvista/crm-backoffice/internal/core/ports"
)

const saleCollection = "sales"

// SaleRepository persists the immutable sale ledger and runs the
// aggregations behind the statistics service. Reads join customer and
// package names with $lookup so callers get display-ready rows.
type SaleRepository struct {
	coll *mongo.Collection
}

func NewSaleRepository(db *mongo.Database) *SaleRepository {
	return &SaleRepository{coll: db.Collection(saleCollection)}
}

type mongoSale struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	CustomerID     primitive.ObjectID `bson:"customer_id"`
	PackageID      primitive.ObjectID `bson:"package_id"`
	Amount         float64            `bson:"amount"`
	SaleDate       time.Time          `bson:"sale_date"`
	CreatedAt      time.Time          `bson:"created_at"`
	IdempotencyKey string             `bson:"idempotency_key,omitempty"`
}

// joinedSale is the $lookup projection used by the list queries.
type joinedSale struct {
	mongoSale    `bson:",inline"`
	CustomerName string `bson:"customer_name"`
	PackageName  string `bson:"package_name"`
}

func (r *SaleRepository) Create(ctx context.Context, sale *domain.Sale) (*domain.Sale, error) {
	customerID, err := primitive.ObjectIDFromHex(sale.CustomerID)
	if err != nil {
		return nil, domain.ErrSaleReference
	}
	packageID, err := primitive.ObjectIDFromHex(sale.PackageID)
	if err != nil {
		return nil, domain.ErrSaleReference
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSale{
		CustomerID:     customerID,
		PackageID:      packageID,
		Amount:         sale.Amount,
		SaleDate:       sale.SaleDate.UTC(),
		CreatedAt:      sale.CreatedAt.UTC(),
		IdempotencyKey: sale.IdempotencyKey,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}

	created := *sale
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *SaleRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoSale
	if err := r.coll.FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSaleNotFound
		}
		return nil, fmt.Errorf("find sale: %w", err)
	}
	return ms.toDomain("", ""), nil
}

func (r *SaleRepository) ListAll(ctx context.Context) ([]domain.Sale, error) {
	return r.listJoined(ctx, bson.M{})
}

func (r *SaleRepository) ListForCustomer(ctx context.Context, customerID string) ([]domain.Sale, error) {
	oid, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return nil, domain.ErrCustomerNotFound
	}
	return r.listJoined(ctx, bson.M{"customer_id": oid})
}

func (r *SaleRepository) listJoined(ctx context.Context, match bson.M) ([]domain.Sale, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         customerCollection,
			"localField":   "customer_id",
			"foreignField": "_id",
			"as":           "customer",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         packageCollection,
			"localField":   "package_id",
			"foreignField": "_id",
			"as":           "package",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"customer_name": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$customer.name", 0}}, ""}},
			"package_name":  bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$package.name", 0}}, ""}},
		}}},
		{{Key: "$project", Value: bson.M{"customer": 0, "package": 0}}},
		{{Key: "$sort", Value: bson.D{{Key: "sale_date", Value: -1}, {Key: "created_at", Value: -1}}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer cur.Close(ctx)

	sales := make([]domain.Sale, 0)
	for cur.Next(ctx) {
		var js joinedSale
		if err := cur.Decode(&js); err != nil {
			return nil, fmt.Errorf("decode sale: %w", err)
		}
		sales = append(sales, *js.mongoSale.toDomain(js.CustomerName, js.PackageName))
	}
	return sales, cur.Err()
}

func (r *SaleRepository) TotalsByPackage(ctx context.Context) (map[string]ports.PackageTotal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":     "$package_id",
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$amount"},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("package totals: %w", err)
	}
	defer cur.Close(ctx)

	totals := make(map[string]ports.PackageTotal)
	for cur.Next(ctx) {
		var row struct {
			ID      primitive.ObjectID `bson:"_id"`
			Count   int64              `bson:"count"`
			Revenue float64            `bson:"revenue"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode package total: %w", err)
		}
		totals[row.ID.Hex()] = ports.PackageTotal{Count: row.Count, Revenue: row.Revenue}
	}
	return totals, cur.Err()
}

func (r *SaleRepository) Totals(ctx context.Context) (domain.Totals, error) {
	total, err := r.totalsMatching(ctx, bson.M{})
	if err != nil {
		return domain.Totals{}, err
	}
	return domain.Totals{TotalSales: total.Count, TotalRevenue: total.Revenue}, nil
}

func (r *SaleRepository) TotalsBetween(ctx context.Context, from, to time.Time) (ports.PackageTotal, error) {
	return r.totalsMatching(ctx, bson.M{"sale_date": bson.M{"$gte": from.UTC(), "$lt": to.UTC()}})
}

func (r *SaleRepository) totalsMatching(ctx context.Context, match bson.M) (ports.PackageTotal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$amount"},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return ports.PackageTotal{}, fmt.Errorf("sale totals: %w", err)
	}
	defer cur.Close(ctx)

	// No matching rows groups to nothing; zero totals, not an error.
	if !cur.Next(ctx) {
		return ports.PackageTotal{}, cur.Err()
	}

	var row struct {
		Count   int64   `bson:"count"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cur.Decode(&row); err != nil {
		return ports.PackageTotal{}, fmt.Errorf("decode sale totals: %w", err)
	}
	return ports.PackageTotal{Count: row.Count, Revenue: row.Revenue}, nil
}

// EnsureIndexes creates the indexes backing list and replay lookups.
func (r *SaleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "customer_id", Value: 1}}},
		{Keys: bson.D{{Key: "sale_date", Value: -1}}},
		{Keys: bson.D{{Key: "idempotency_key", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (ms mongoSale) toDomain(customerName, packageName string) *domain.Sale {
	return &domain.Sale{
		ID:             ms.ID.Hex(),
		CustomerID:     ms.CustomerID.Hex(),
		PackageID:      ms.PackageID.Hex(),
		CustomerName:   customerName,
		PackageName:    packageName,
		Amount:         ms.Amount,
		SaleDate:       ms.SaleDate.UTC(),
		CreatedAt:      ms.CreatedAt.UTC(),
		IdempotencyKey: ms.IdempotencyKey,
	}
}
