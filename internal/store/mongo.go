package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/thai2602/blogassist/internal/config"
	"github.com/thai2602/blogassist/internal/domain"
)

// Collection names.
const (
	blogsCollection = "blogs"
	usersCollection = "users"
)

// Mongo wraps a MongoDB connection and exposes the store gateways.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes a MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.MongoConfig) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout))
	if err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "connect to mongodb")
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, domain.WrapError(domain.KindStore, err, "ping mongodb")
	}

	return &Mongo{client: client, db: client.Database(cfg.Database)}, nil
}

// Ping checks connectivity for health reporting.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Blogs returns the blog store gateway.
func (m *Mongo) Blogs() BlogStore {
	return &mongoBlogStore{coll: m.db.Collection(blogsCollection)}
}

// Users returns the user store gateway.
func (m *Mongo) Users() UserStore {
	return &mongoUserStore{coll: m.db.Collection(usersCollection)}
}

type mongoBlogStore struct {
	coll *mongo.Collection
}

// blogQuery converts a BlogFilter into a bson filter document.
func blogQuery(filter BlogFilter) bson.M {
	query := bson.M{}
	if filter.PublishedOnly {
		query["published"] = true
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.AuthorID != "" {
		query["author"] = filter.AuthorID
	}
	if filter.Featured != nil {
		query["featured"] = *filter.Featured
	}
	if filter.Search != "" {
		pattern := bson.M{"$regex": filter.Search, "$options": "i"}
		query["$or"] = []bson.M{
			{"title": pattern},
			{"content": pattern},
		}
	}
	return query
}

// blogSort converts a BlogFilter sort into a bson sort document.
func blogSort(filter BlogFilter) bson.D {
	if filter.Sort == SortViews {
		return bson.D{{Key: "views", Value: -1}, {Key: "createdAt", Value: -1}}
	}
	return bson.D{{Key: "createdAt", Value: -1}}
}

func (s *mongoBlogStore) Find(ctx context.Context, filter BlogFilter) ([]*domain.Blog, error) {
	opts := options.Find().SetSort(blogSort(filter))
	if filter.Limit > 0 {
		opts = opts.SetLimit(int64(filter.Limit))
	}

	cur, err := s.coll.Find(ctx, blogQuery(filter), opts)
	if err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "find blogs")
	}

	var blogs []*domain.Blog
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "decode blogs")
	}
	return blogs, nil
}

func (s *mongoBlogStore) FindByID(ctx context.Context, id string) (*domain.Blog, error) {
	var blog domain.Blog
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&blog)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "find blog %s", id)
	}
	return &blog, nil
}

func (s *mongoBlogStore) Create(ctx context.Context, blog *domain.Blog) (*domain.Blog, error) {
	now := time.Now().UTC()
	blog.ID = bson.NewObjectID().Hex()
	blog.CreatedAt = now
	blog.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, blog); err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "insert blog")
	}
	return blog, nil
}

func (s *mongoBlogStore) Update(ctx context.Context, id string, patch BlogPatch) (*domain.Blog, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
		set["readTime"] = domain.ReadTimeMinutes(*patch.Content)
		set["excerpt"] = domain.MakeExcerpt(*patch.Content)
	}
	if patch.Excerpt != nil {
		set["excerpt"] = *patch.Excerpt
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Tags != nil {
		set["tags"] = *patch.Tags
	}
	if patch.CoverImage != nil {
		set["coverImage"] = *patch.CoverImage
	}
	if patch.Published != nil {
		set["published"] = *patch.Published
	}
	if patch.Featured != nil {
		set["featured"] = *patch.Featured
	}

	return s.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (s *mongoBlogStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, domain.WrapError(domain.KindStore, err, "delete blog %s", id)
	}
	return res.DeletedCount > 0, nil
}

func (s *mongoBlogStore) IncrementViews(ctx context.Context, id string) (*domain.Blog, error) {
	return s.findOneAndUpdate(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
}

func (s *mongoBlogStore) IncrementLikes(ctx context.Context, id string) (*domain.Blog, error) {
	return s.findOneAndUpdate(ctx, id, bson.M{"$inc": bson.M{"likes": 1}})
}

// findOneAndUpdate applies an update and returns the post-update document,
// or (nil, nil) when the id does not resolve.
func (s *mongoBlogStore) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*domain.Blog, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var blog domain.Blog
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&blog)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "update blog %s", id)
	}
	return &blog, nil
}

func (s *mongoBlogStore) Count(ctx context.Context, filter BlogFilter) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, blogQuery(filter))
	if err != nil {
		return 0, domain.WrapError(domain.KindStore, err, "count blogs")
	}
	return count, nil
}

func (s *mongoBlogStore) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"published": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "aggregate categories")
	}

	var counts []CategoryCount
	if err := cur.All(ctx, &counts); err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "decode category counts")
	}
	return counts, nil
}

func (s *mongoBlogStore) DeleteAll(ctx context.Context) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return domain.WrapError(domain.KindStore, err, "delete all blogs")
	}
	return nil
}

type mongoUserStore struct {
	coll *mongo.Collection
}

func (s *mongoUserStore) List(ctx context.Context) ([]*domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "find users")
	}

	var users []*domain.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "decode users")
	}
	return users, nil
}

func (s *mongoUserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "find user %s", id)
	}
	return &user, nil
}

// FindFirst returns the first user by insertion order, the default-author
// policy of the create_blog action.
func (s *mongoUserStore) FindFirst(ctx context.Context) (*domain.User, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	var user domain.User
	err := s.coll.FindOne(ctx, bson.M{}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "find first user")
	}
	return &user, nil
}

func (s *mongoUserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	filter := bson.M{"$or": []bson.M{
		{"username": username},
		{"email": email},
	}}

	var user domain.User
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "find user by username or email")
	}
	return &user, nil
}

func (s *mongoUserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	user.ID = bson.NewObjectID().Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.BlogIDs == nil {
		user.BlogIDs = []string{}
	}
	if user.FavoriteBlogIDs == nil {
		user.FavoriteBlogIDs = []string{}
	}

	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "insert user")
	}
	return user, nil
}

func (s *mongoUserStore) Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.FullName != nil {
		set["fullName"] = *patch.FullName
	}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.Avatar != nil {
		set["avatar"] = *patch.Avatar
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user domain.User
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindStore, err, "update user %s", id)
	}
	return &user, nil
}

func (s *mongoUserStore) AddBlogRef(ctx context.Context, userID, blogID string) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$push": bson.M{"blogs": blogID}})
	if err != nil {
		return domain.WrapError(domain.KindStore, err, "add blog ref to user %s", userID)
	}
	if res.MatchedCount == 0 {
		return domain.NewError(domain.KindNotFound, "user %s not found", userID)
	}
	return nil
}

func (s *mongoUserStore) RemoveBlogRef(ctx context.Context, userID, blogID string) error {
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"blogs": blogID}}); err != nil {
		return domain.WrapError(domain.KindStore, err, "remove blog ref from user %s", userID)
	}
	return nil
}

func (s *mongoUserStore) DeleteAll(ctx context.Context) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return domain.WrapError(domain.KindStore, err, "delete all users")
	}
	return nil
}
