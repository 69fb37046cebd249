package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/arcsight-connector/pkg/service/arcsight"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/logging"
)

type ConnectivityUseCase struct {
	arcsight arcsight.Service
}

func NewConnectivityUseCase(svc arcsight.Service) *ConnectivityUseCase {
	return &ConnectivityUseCase{arcsight: svc}
}

// TestConnectivity logs into ArcSight and validates the ESM version
func (uc *ConnectivityUseCase) TestConnectivity(ctx context.Context) error {
	if err := uc.arcsight.Login(ctx); err != nil {
		logging.From(ctx).Warn("Test Connectivity Failed")
		return goerr.Wrap(err, "test connectivity failed")
	}

	logging.From(ctx).Info("Test Connectivity Passed")
	return nil
}
