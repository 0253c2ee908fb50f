package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(credentialsFile string) (*FCMService, error) {
	ctx := context.Background()

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// NewFCMServiceFromBase64 creates a new FCM service instance from base64-encoded credentials.
// This is useful for cloud deployments (Railway, Fly.io, Render) where you can't upload files easily
func NewFCMServiceFromBase64(credentialsBase64 string) (*FCMService, error) {
	ctx := context.Background()

	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}

	opt := option.WithCredentialsJSON(credentialsJSON)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// SendVesselSwapNotification tells a crew device that a trip's vessel was
// replaced and how many passengers were reseated
func (s *FCMService) SendVesselSwapNotification(token, tripID, vesselName string, movedPassengers int) error {
	ctx := context.Background()

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "Vessel Changed",
			Body:  fmt.Sprintf("Your trip now sails on %s. %d passengers were reseated.", vesselName, movedPassengers),
		},
		Data: map[string]string{
			"type":             "vessel_swap",
			"trip_id":          tripID,
			"vessel_name":      vesselName,
			"moved_passengers": strconv.Itoa(movedPassengers),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending vessel swap notification: %w", err)
	}

	log.Printf("✅ Vessel swap notification sent: %s", response)
	return nil
}

// SendTripCancelledNotification tells a crew device that a trip was cancelled
func (s *FCMService) SendTripCancelledNotification(token, tripID, routeName string) error {
	ctx := context.Background()

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: "Trip Cancelled",
			Body:  fmt.Sprintf("The %s sailing has been cancelled.", routeName),
		},
		Data: map[string]string{
			"type":       "trip_cancelled",
			"trip_id":    tripID,
			"route_name": routeName,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending trip cancelled notification: %w", err)
	}

	log.Printf("✅ Trip cancelled notification sent: %s", response)
	return nil
}
