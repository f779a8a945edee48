package services

import (
	"context"
	"strings"
	"time"

	"github.com/AliShafique28/task-management-system-1/errs"
	"github.com/AliShafique28/task-management-system-1/logging"
	"github.com/AliShafique28/task-management-system-1/models"
	"github.com/AliShafique28/task-management-system-1/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStore is the user-resolution contract the project and task services
// depend on. Absence is always a not-found error, never a zero value.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	SummariesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error)
}

type UserService struct {
	UsersCollection *mongo.Collection
}

func NewUserService(usersCollection *mongo.Collection) *UserService {
	return &UserService{UsersCollection: usersCollection}
}

// Register creates a new user with a bcrypt-hashed password. Email is the
// login identity and must be unique.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return nil, errs.Validation("Please provide name, email and password")
	}
	if len(password) < 6 {
		return nil, errs.Validation("Password must be at least 6 characters")
	}

	count, err := s.UsersCollection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, errs.Internal(err, "Server error during registration")
	}
	if count > 0 {
		return nil, errs.Conflict("User with this email already exists")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, errs.Internal(err, "Server error during registration")
	}

	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  hashed,
		CreatedAt: time.Now(),
	}

	if _, err := s.UsersCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errs.Conflict("User with this email already exists")
		}
		logging.Logger.Errorf("Failed to insert user: %v", err)
		return nil, errs.Internal(err, "Server error during registration")
	}

	return user, nil
}

// Login verifies credentials and returns a signed token plus the user.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, errs.Validation("Please provide email and password")
	}

	var user models.User
	err := s.UsersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return "", nil, errs.Forbidden("Invalid credentials")
	}
	if err != nil {
		return "", nil, errs.Internal(err, "Server error during login")
	}

	if !utils.CheckPassword(user.Password, password) {
		return "", nil, errs.Forbidden("Invalid credentials")
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email)
	if err != nil {
		logging.Logger.Errorf("Failed to sign token for user %s: %v", user.ID.Hex(), err)
		return "", nil, errs.Internal(err, "Server error during login")
	}

	return token, &user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.UsersCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, errs.NotFound("User not found with this email")
	}
	if err != nil {
		return nil, errs.Internal(err, "Server error")
	}
	return &user, nil
}

func (s *UserService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.UsersCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, errs.NotFound("User not found")
	}
	if err != nil {
		return nil, errs.Internal(err, "Server error")
	}
	return &user, nil
}

// SummariesByIDs resolves a set of user ids to summaries in one query.
// Unknown ids are simply absent from the result map.
func (s *UserService) SummariesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	summaries := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	cursor, err := s.UsersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errs.Internal(err, "Server error")
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, errs.Internal(err, "Server error")
		}
		summaries[user.ID] = user.Summary()
	}
	if err := cursor.Err(); err != nil {
		return nil, errs.Internal(err, "Server error")
	}

	return summaries, nil
}
