// seed inserts development sample data for local testing. Run via go run ./cmd/seed.
// Idempotent: skips inserts if the dev user (alice) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	authrepo "social-platform/backend/internal/auth/repository"
	authservice "social-platform/backend/internal/auth/service"
	commentrepo "social-platform/backend/internal/comment/repository"
	commentservice "social-platform/backend/internal/comment/service"
	"social-platform/backend/internal/config"
	"social-platform/backend/internal/db"
	followrepo "social-platform/backend/internal/follow/repository"
	followservice "social-platform/backend/internal/follow/service"
	likerepo "social-platform/backend/internal/like/repository"
	likeservice "social-platform/backend/internal/like/service"
	messagedomain "social-platform/backend/internal/message/domain"
	messagerepo "social-platform/backend/internal/message/repository"
	messageservice "social-platform/backend/internal/message/service"
	notifrepo "social-platform/backend/internal/notification/repository"
	notifservice "social-platform/backend/internal/notification/service"
	postdomain "social-platform/backend/internal/post/domain"
	postrepo "social-platform/backend/internal/post/repository"
	postservice "social-platform/backend/internal/post/service"
	"social-platform/backend/internal/security"
	userrepo "social-platform/backend/internal/user/repository"
	userservice "social-platform/backend/internal/user/service"
)

const devPassword = "password123"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()

	users := userrepo.NewPostgresRepository(conn)
	follows := followrepo.NewPostgresRepository(conn)
	posts := postrepo.NewPostgresRepository(conn)
	likes := likerepo.NewPostgresRepository(conn)
	comments := commentrepo.NewPostgresRepository(conn)
	messages := messagerepo.NewPostgresRepository(conn)
	notifs := notifrepo.NewPostgresRepository(conn)
	refreshTokens := authrepo.NewPostgresRefreshTokenRepository(conn)
	resetTokens := authrepo.NewPostgresResetTokenRepository(conn)
	sessions := authrepo.NewPostgresSessionRepository(conn)

	hasher := security.NewHasher(cfg.BcryptCost)
	maxLimit := cfg.MaxPageLimit

	userSvc := userservice.NewUserService(users, hasher, maxLimit)
	authSvc := authservice.NewAuthService(users, refreshTokens, resetTokens, sessions, hasher,
		cfg.RefreshTTLDuration(), cfg.ResetTokenTTLDuration())
	notifSvc := notifservice.NewNotificationService(notifs, nil, maxLimit)
	followSvc := followservice.NewFollowService(follows, users, notifSvc, maxLimit)
	postSvc := postservice.NewPostService(posts, follows, notifSvc, maxLimit)
	likeSvc := likeservice.NewLikeService(likes, postSvc, notifSvc, maxLimit)
	commentSvc := commentservice.NewCommentService(comments, postSvc, notifSvc, maxLimit)
	messageSvc := messageservice.NewMessageService(messages, notifSvc, maxLimit)

	if existing, err := userSvc.GetByUsername(ctx, "alice"); err == nil && existing != nil {
		log.Println("Seed already applied (alice exists). Skipping.")
		os.Exit(0)
	}

	alice, err := userSvc.Register(ctx, "alice@example.com", "alice", "Alice Anders", devPassword, nil)
	if err != nil {
		log.Fatalf("create alice: %v", err)
	}
	bob, err := userSvc.Register(ctx, "bob@example.com", "bob", "Bob Brandt", devPassword, nil)
	if err != nil {
		log.Fatalf("create bob: %v", err)
	}
	carol, err := userSvc.Register(ctx, "carol@example.com", "carol", "Carol Chen", devPassword, nil)
	if err != nil {
		log.Fatalf("create carol: %v", err)
	}
	if _, err := userSvc.SetPrivacy(ctx, carol.ID, true); err != nil {
		log.Fatalf("set carol private: %v", err)
	}

	if _, err := followSvc.Follow(ctx, bob.ID, alice.ID); err != nil {
		log.Fatalf("bob follows alice: %v", err)
	}
	// Carol is private: bob's follow stays pending until accepted.
	if _, err := followSvc.Follow(ctx, bob.ID, carol.ID); err != nil {
		log.Fatalf("bob follows carol: %v", err)
	}
	if _, err := followSvc.Accept(ctx, carol.ID, bob.ID); err != nil {
		log.Fatalf("carol accepts bob: %v", err)
	}

	post, err := postSvc.CreateTextPost(ctx, alice.ID, "First post on the platform!", postdomain.VisibilityPublic)
	if err != nil {
		log.Fatalf("create post: %v", err)
	}
	if _, err := postSvc.CreateTextPost(ctx, carol.ID, "For my followers only.", postdomain.VisibilityFollowers); err != nil {
		log.Fatalf("create carol post: %v", err)
	}

	if _, err := likeSvc.Like(ctx, bob.ID, post.ID); err != nil {
		log.Fatalf("bob likes post: %v", err)
	}
	if _, err := commentSvc.Comment(ctx, bob.ID, post.ID, "Welcome aboard!"); err != nil {
		log.Fatalf("bob comments: %v", err)
	}
	if _, err := messageSvc.Send(ctx, alice.ID, bob.ID, "Thanks for the warm welcome.", messagedomain.MessageTypeText, nil); err != nil {
		log.Fatalf("alice messages bob: %v", err)
	}

	// Open a session for alice so the auth tables carry sample rows too.
	if _, err := authSvc.Login(ctx, "alice@example.com", devPassword, "127.0.0.1", "seed"); err != nil {
		log.Fatalf("alice login: %v", err)
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Dev logins: alice@example.com, bob@example.com, carol@example.com / %s\n", devPassword)
}
