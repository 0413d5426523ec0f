package gallery

import (
	"context"
	"errors"
	"strings"

	"github.com/eleven-am/gallery-backend/internal/shared"
	"github.com/qdrant/go-client/qdrant"
	"gorm.io/gorm"
)

// SearchHit is one nearest-neighbor match from the vector index. ID is the
// stored file name; Tags is the comma-joined form kept in the point payload.
type SearchHit struct {
	ID          string
	Description string
	Tags        string
}

type Store struct {
	db         *gorm.DB
	qdrant     *qdrant.Client
	collection string
}

func NewStore(db *gorm.DB, qdrantClient *qdrant.Client, collection string) *Store {
	return &Store{
		db:         db,
		qdrant:     qdrantClient,
		collection: collection,
	}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Photo{})
}

// EnsureCollection creates the vector collection if it does not exist yet.
// Cosine distance matches the embedding space the CLIP sidecar produces.
func (s *Store) EnsureCollection(ctx context.Context, dimension uint64) error {
	exists, err := s.qdrant.CollectionExists(ctx, s.collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.qdrant.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func (s *Store) Create(ctx context.Context, p *Photo) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Store) GetByID(ctx context.Context, id string) (*Photo, error) {
	var p Photo
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	return &p, err
}

func (s *Store) GetByFileName(ctx context.Context, fileName string) (*Photo, error) {
	var p Photo
	err := s.db.WithContext(ctx).Where("file_name = ?", fileName).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	return &p, err
}

func (s *Store) List(ctx context.Context) ([]*Photo, error) {
	var photos []*Photo
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&photos).Error
	return photos, err
}

func (s *Store) UpdateUserTags(ctx context.Context, id string, tags []string) error {
	result := s.db.WithContext(ctx).Model(&Photo{}).Where("id = ?", id).
		Update("user_tags", shared.StringSlice(tags))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&Photo{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return s.DeleteEmbedding(ctx, id)
}

// UpsertEmbedding writes the photo's vector plus the payload fields the chat
// retrieval path reads back (file name, description, comma-joined tags).
func (s *Store) UpsertEmbedding(ctx context.Context, p *Photo, embedding []float32) error {
	if s.qdrant == nil {
		return errors.New("qdrant client not configured")
	}

	_, err := s.qdrant.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(p.ID),
				Vectors: qdrant.NewVectors(embedding...),
				Payload: qdrant.NewValueMap(map[string]any{
					"file_name":   p.FileName,
					"description": p.Description,
					"tags":        strings.Join(p.Tags, ","),
				}),
			},
		},
	})
	return err
}

// SearchByEmbedding runs one cosine top-N query and maps the payload back
// into hits, preserving the index's ranking order.
func (s *Store) SearchByEmbedding(ctx context.Context, embedding []float32, limit int) ([]SearchHit, error) {
	if s.qdrant == nil {
		return nil, errors.New("qdrant client not configured")
	}

	results, err := s.qdrant.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(results))
	for _, r := range results {
		payload := r.GetPayload()
		hit := SearchHit{}
		if v, ok := payload["file_name"]; ok {
			hit.ID = v.GetStringValue()
		}
		if v, ok := payload["description"]; ok {
			hit.Description = v.GetStringValue()
		}
		if v, ok := payload["tags"]; ok {
			hit.Tags = v.GetStringValue()
		}
		if hit.ID == "" {
			continue
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

func (s *Store) DeleteEmbedding(ctx context.Context, id string) error {
	if s.qdrant == nil {
		return errors.New("qdrant client not configured")
	}

	_, err := s.qdrant.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points:         qdrant.NewPointsSelector(qdrant.NewID(id)),
	})
	return err
}
