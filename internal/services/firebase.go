package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// InitFirebase initializes the Firebase Admin SDK app. bucket may be empty
// when file storage stays on local disk.
func InitFirebase(ctx context.Context, credPath, bucket string) (*firebase.App, error) {
	opt := option.WithCredentialsFile(credPath)

	var conf *firebase.Config
	if bucket != "" {
		conf = &firebase.Config{StorageBucket: bucket}
	}
	return firebase.NewApp(ctx, conf, opt)
}

// FirebaseAuth returns the auth client used to verify photographer ID tokens
func FirebaseAuth(ctx context.Context, app *firebase.App) (*auth.Client, error) {
	return app.Auth(ctx)
}

// FirebaseBucketStore returns a FileStore backed by the app's default bucket
func FirebaseBucketStore(ctx context.Context, app *firebase.App, bucket string) (*BucketStore, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase storage: %w", err)
	}
	handle, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("firebase bucket: %w", err)
	}
	return NewBucketStore(handle, bucket), nil
}
