package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/AliShafique28/task-management-system-1/handlers"
	"github.com/AliShafique28/task-management-system-1/logging"
	"github.com/AliShafique28/task-management-system-1/middleware"
	"github.com/AliShafique28/task-management-system-1/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func createUserEmailIndex(collection *mongo.Collection) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}
	_, err := collection.Indexes().CreateOne(context.TODO(), indexModel)
	if err != nil {
		return fmt.Errorf("failed to create unique index on user email: %v", err)
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	logging.InitLogger()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Database connection failed:", err)
	}
	defer client.Disconnect(context.TODO())

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("MongoDB connection error:", err)
	}
	fmt.Println("Connected to MongoDB!")

	db := client.Database("task_management")
	usersCollection := db.Collection("users")
	projectsCollection := db.Collection("projects")
	tasksCollection := db.Collection("tasks")

	if err := createUserEmailIndex(usersCollection); err != nil {
		log.Fatal(err)
	}

	userService := services.NewUserService(usersCollection)
	projectService := services.NewProjectService(projectsCollection, tasksCollection, userService)
	taskService := services.NewTaskService(tasksCollection, projectsCollection, userService)
	blacklist := services.NewTokenBlacklist()

	authHandler := handlers.NewAuthHandler(userService, blacklist)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := mux.NewRouter()

	// Register and login are the only routes reachable without a token.
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	auth := middleware.JWTAuthMiddleware(blacklist)

	// Logout sits behind the middleware so only tokens that actually
	// authenticate can end up on the blacklist.
	logout := r.PathPrefix("/api/auth/logout").Subrouter()
	logout.Use(auth)
	logout.HandleFunc("", authHandler.Logout).Methods("POST")

	projects := r.PathPrefix("/api/projects").Subrouter()
	projects.Use(auth)
	projects.HandleFunc("", projectHandler.CreateProject).Methods("POST")
	projects.HandleFunc("", projectHandler.ListProjects).Methods("GET")
	projects.HandleFunc("/search", projectHandler.SearchProjects).Methods("GET")
	projects.HandleFunc("/{id}", projectHandler.GetProject).Methods("GET")
	projects.HandleFunc("/{id}", projectHandler.UpdateProject).Methods("PUT")
	projects.HandleFunc("/{id}", projectHandler.DeleteProject).Methods("DELETE")
	projects.HandleFunc("/{projectId}/members", projectHandler.AddMember).Methods("POST")
	projects.HandleFunc("/{projectId}/members/{userId}/promote", projectHandler.PromoteMember).Methods("PATCH")
	projects.HandleFunc("/{projectId}/members/{userId}", projectHandler.RemoveMember).Methods("DELETE")

	tasks := r.PathPrefix("/api/tasks").Subrouter()
	tasks.Use(auth)
	tasks.HandleFunc("", taskHandler.CreateTask).Methods("POST")
	tasks.HandleFunc("", taskHandler.ListTasks).Methods("GET")
	tasks.HandleFunc("/search", taskHandler.SearchTasks).Methods("GET")
	tasks.HandleFunc("/{id}", taskHandler.GetTask).Methods("GET")
	tasks.HandleFunc("/{id}", taskHandler.UpdateTask).Methods("PUT")
	tasks.HandleFunc("/{id}", taskHandler.DeleteTask).Methods("DELETE")
	tasks.HandleFunc("/{id}/status", taskHandler.UpdateTaskStatus).Methods("PATCH")

	corsRouter := enableCORS(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      corsRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	fmt.Printf("Task management backend running on http://localhost:%s\n", port)
	logging.Logger.Infof("Server starting on port %s", port)
	log.Fatal(srv.ListenAndServe())
}

// enableCORS allows the dashboard frontend to call the API from another
// origin. CORS_ORIGIN defaults to allowing everything for local development.
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := os.Getenv("CORS_ORIGIN")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
