package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

const collectionProfiles = "profiles"

type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionProfiles)}
}

type mongoProfile struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Owner             string             `bson:"owner"`
	DisplayName       string             `bson:"display_name"`
	Email             string             `bson:"email,omitempty"`
	Bio               string             `bson:"bio,omitempty"`
	SkillsOffered     []string           `bson:"skills_offered"`
	SkillsWanted      []string           `bson:"skills_wanted"`
	Availability      string             `bson:"availability,omitempty"`
	YearsOfExperience int                `bson:"years_of_experience"`
	Contact           string             `bson:"contact,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func (m mongoProfile) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:                m.ID.Hex(),
		Owner:             m.Owner,
		DisplayName:       m.DisplayName,
		Email:             m.Email,
		Bio:               m.Bio,
		SkillsOffered:     nonNil(m.SkillsOffered),
		SkillsWanted:      nonNil(m.SkillsWanted),
		Availability:      m.Availability,
		YearsOfExperience: m.YearsOfExperience,
		Contact:           m.Contact,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

// Upsert replaces the owner's profile in place; created_at is only written on
// insert.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"display_name":        p.DisplayName,
			"email":               p.Email,
			"bio":                 p.Bio,
			"skills_offered":      nonNil(p.SkillsOffered),
			"skills_wanted":       nonNil(p.SkillsWanted),
			"availability":        p.Availability,
			"years_of_experience": p.YearsOfExperience,
			"contact":             p.Contact,
			"updated_at":          p.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": p.CreatedAt},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc mongoProfile
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"owner": p.Owner}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ProfileRepository) FindByOwner(ctx context.Context, owner string) (*domain.Profile, error) {
	return r.findOne(ctx, bson.M{"owner": owner})
}

func (r *ProfileRepository) Search(ctx context.Context, filter ports.ProfileFilter) ([]*domain.Profile, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := searchFilter(filter)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}
	if total == 0 {
		return []*domain.Profile{}, 0, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("search profiles: %w", err)
	}

	var docs []mongoProfile
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode profiles: %w", err)
	}

	out := make([]*domain.Profile, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, total, nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes used by owner lookups and skill search.
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "skills_offered", Value: 1}}},
		{Keys: bson.D{{Key: "skills_wanted", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ProfileRepository) findOne(ctx context.Context, filter bson.M) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoProfile
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return doc.toDomain(), nil
}

func searchFilter(f ports.ProfileFilter) bson.M {
	var clauses bson.A
	if f.Skill != "" {
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"skills_offered": f.Skill},
			bson.M{"skills_wanted": f.Skill},
		}})
	}
	if f.Query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"display_name": pattern},
			bson.M{"owner": pattern},
		}})
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0].(bson.M)
	default:
		return bson.M{"$and": clauses}
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
