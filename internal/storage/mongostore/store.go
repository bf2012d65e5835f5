package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"hotel_indexes/internal/adapters/observability"
	"hotel_indexes/internal/domain"
)

const driver = "mongo"

type hotelDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Location    string             `bson:"location"`
	Price       float64            `bson:"price"`
	Rooms       int                `bson:"rooms"`
	Description string             `bson:"description,omitempty"`
}

// indexDoc is the subset of listIndexes output we read back. Text indexes
// report their fields under weights; key holds _fts/_ftsx.
type indexDoc struct {
	Name    string `bson:"name"`
	Key     bson.D `bson:"key"`
	Weights bson.D `bson:"weights,omitempty"`
}

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect dials uri and pings the primary. The returned store owns the
// client; Close disconnects it.
func Connect(ctx context.Context, uri, db, coll string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return New(client, client.Database(db).Collection(coll)), nil
}

func New(client *mongo.Client, coll *mongo.Collection) *Store {
	return &Store{client: client, coll: coll}
}

func (s *Store) Insert(ctx context.Context, h domain.Hotel) (id string, err error) {
	defer observability.ObserveStore(driver, "insert", time.Now(), &err)
	res, err := s.coll.InsertOne(ctx, hotelDoc{
		Name:        h.Name,
		Location:    h.Location,
		Price:       h.Price,
		Rooms:       h.Rooms,
		Description: h.Description,
	})
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("mongo: unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *Store) Find(ctx context.Context, f domain.HotelFilter) (out []domain.Hotel, err error) {
	defer observability.ObserveStore(driver, "find", time.Now(), &err)
	filter, err := Filter(f)
	if err != nil {
		return nil, err
	}
	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []hotelDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out = make([]domain.Hotel, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Hotel{
			ID:          d.ID.Hex(),
			Name:        d.Name,
			Location:    d.Location,
			Price:       d.Price,
			Rooms:       d.Rooms,
			Description: d.Description,
		})
	}
	return out, nil
}

// Filter translates a dispatcher filter into a find document.
func Filter(f domain.HotelFilter) (bson.D, error) {
	switch f.Kind {
	case domain.FilterLocation:
		return bson.D{{Key: "location", Value: f.Location}}, nil
	case domain.FilterLocationPrice:
		return bson.D{{Key: "location", Value: f.Location}, {Key: "price", Value: f.Price}}, nil
	case domain.FilterText:
		return bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: f.Search}}}}, nil
	case domain.FilterPriceRange:
		op := f.Op
		if op == "" {
			op = domain.CmpGT
		}
		if !op.Valid() {
			return nil, fmt.Errorf("mongo: invalid comparison %q", op)
		}
		return bson.D{{Key: "price", Value: bson.D{{Key: "$" + string(op), Value: f.Price}}}}, nil
	}
	return nil, fmt.Errorf("mongo: unsupported filter kind %q", f.Kind)
}

// EnsureIndex checks the collection's index metadata by name before
// creating. createIndexes with an identical definition is itself a no-op
// on the server, which covers races between processes.
func (s *Store) EnsureIndex(ctx context.Context, spec domain.IndexSpec) (created bool, err error) {
	defer observability.ObserveStore(driver, "ensure_index", time.Now(), &err)
	existing, err := s.ListIndexes(ctx)
	if err != nil {
		return false, err
	}
	for _, ix := range existing {
		if ix.Name == spec.Name {
			return false, nil
		}
	}
	if len(spec.Fields) == 0 {
		return false, errors.New("mongo: index without fields")
	}

	keys := bson.D{}
	for _, f := range spec.Fields {
		var v any = 1
		if spec.Kind == domain.IndexText {
			v = "text"
		}
		keys = append(keys, bson.E{Key: f, Value: v})
	}
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(spec.Name),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ListIndexes(ctx context.Context) (out []domain.IndexSpec, err error) {
	defer observability.ObserveStore(driver, "list_indexes", time.Now(), &err)
	cur, err := s.coll.Indexes().List(ctx)
	if err != nil {
		if isNamespaceNotFound(err) {
			return []domain.IndexSpec{}, nil
		}
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []indexDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out = make([]domain.IndexSpec, 0, len(docs))
	for _, d := range docs {
		out = append(out, toSpec(d))
	}
	return out, nil
}

func toSpec(d indexDoc) domain.IndexSpec {
	spec := domain.IndexSpec{Name: d.Name}
	if len(d.Weights) > 0 {
		spec.Kind = domain.IndexText
		for _, w := range d.Weights {
			spec.Fields = append(spec.Fields, w.Key)
		}
		return spec
	}
	for _, k := range d.Key {
		spec.Fields = append(spec.Fields, k.Key)
	}
	spec.Kind = domain.IndexSingle
	if len(spec.Fields) > 1 {
		spec.Kind = domain.IndexCompound
	}
	return spec
}

// collection not created yet
func isNamespaceNotFound(err error) bool {
	var ce mongo.CommandError
	return errors.As(err, &ce) && ce.Code == 26
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
