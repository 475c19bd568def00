package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/telvista/crm-backoffice/internal/core/domain"
)

const packageCollection = "packages"

// PackageRepository serves the service-plan catalog. The catalog is
// reference data: seeded once, read many.
type PackageRepository struct {
	coll *mongo.Collection
}

func NewPackageRepository(db *mongo.Database) *PackageRepository {
	return &PackageRepository{coll: db.Collection(packageCollection)}
}

type mongoPackage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Price       float64            `bson:"price"`
}

func (r *PackageRepository) FindByID(ctx context.Context, id string) (*domain.Package, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPackageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPackage
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, fmt.Errorf("find package: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PackageRepository) List(ctx context.Context) ([]domain.Package, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer cur.Close(ctx)

	packages := make([]domain.Package, 0)
	for cur.Next(ctx) {
		var mp mongoPackage
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode package: %w", err)
		}
		packages = append(packages, *mp.toDomain())
	}
	return packages, cur.Err()
}

// Seed upserts catalog entries by name, so repeated startups never create
// duplicates.
func (r *PackageRepository) Seed(ctx context.Context, packages []domain.Package) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, p := range packages {
		update := bson.M{"$setOnInsert": bson.M{
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
		}}
		_, err := r.coll.UpdateOne(ctx, bson.M{"name": p.Name}, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("seed package %q: %w", p.Name, err)
		}
	}
	return nil
}

func (mp mongoPackage) toDomain() *domain.Package {
	return &domain.Package{
		ID:          mp.ID.Hex(),
		Name:        mp.Name,
		Description: mp.Description,
		Price:       mp.Price,
	}
}
