package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gorent/internal/models"
	"gorent/internal/repositories/interfaces"
	"gorent/internal/utils"
	"gorent/pkg/logger"
)

type VehicleService interface {
	AddVehicle(ctx context.Context, ownerID primitive.ObjectID, request *models.VehicleRequest) (*models.Vehicle, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	ListAvailable(ctx context.Context) ([]*models.Vehicle, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Vehicle, error)
	FindNearby(ctx context.Context, longitude, latitude, maxDistanceMeters float64) ([]*models.Vehicle, error)
}

type vehicleService struct {
	vehicleRepo interfaces.VehicleRepository
	log         *logger.Logger
}

func NewVehicleService(vehicleRepo interfaces.VehicleRepository, log *logger.Logger) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		log:         log,
	}
}

func (s *vehicleService) AddVehicle(ctx context.Context, ownerID primitive.ObjectID, request *models.VehicleRequest) (*models.Vehicle, error) {
	location := request.Location
	if location == "" {
		location = "Unknown Location"
	}

	vehicle := &models.Vehicle{
		OwnerID:     ownerID,
		VehicleType: request.VehicleType,
		Brand:       request.Brand,
		Model:       request.Model,
		RentPerDay:  request.RentPerDay,
		Location:    location,
		LocationGeo: models.NewGeoPoint(request.Longitude, request.Latitude),
		Images:      request.Images,
		Available:   true,
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, utils.NewInternalError(err)
	}

	s.log.WithFields(map[string]interface{}{
		"vehicle_id": vehicle.ID.Hex(),
		"owner_id":   ownerID.Hex(),
	}).Info("vehicle added")

	return vehicle, nil
}

func (s *vehicleService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, utils.NewNotFoundError("Vehicle not found")
		}
		return nil, utils.NewInternalError(err)
	}

	return vehicle, nil
}

func (s *vehicleService) ListAvailable(ctx context.Context) ([]*models.Vehicle, error) {
	vehicles, err := s.vehicleRepo.ListAvailable(ctx)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return vehicles, nil
}

func (s *vehicleService) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Vehicle, error) {
	vehicles, err := s.vehicleRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return vehicles, nil
}

func (s *vehicleService) FindNearby(ctx context.Context, longitude, latitude, maxDistanceMeters float64) ([]*models.Vehicle, error) {
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return nil, utils.NewValidationError("Coordinates out of valid range")
	}

	if maxDistanceMeters <= 0 {
		maxDistanceMeters = utils.DefaultSearchRadiusMeters
	}
	if maxDistanceMeters > utils.MaxSearchRadiusMeters {
		maxDistanceMeters = utils.MaxSearchRadiusMeters
	}

	vehicles, err := s.vehicleRepo.FindNearby(ctx, longitude, latitude, maxDistanceMeters)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	return vehicles, nil
}
