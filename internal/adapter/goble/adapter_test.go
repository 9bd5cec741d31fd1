package goble

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-ble/ble"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/srg/blequest/internal/adapter"
	"github.com/srg/blequest/request"
)

// scriptedDevice implements ble.Device with a controllable Scan outcome.
// Scan blocks until the context is cancelled or release is closed; in the
// latter case it returns scanErr.
type scriptedDevice struct {
	scanErr error
	release chan struct{}
}

func (d *scriptedDevice) AddService(svc *ble.Service) error                          { return nil }
func (d *scriptedDevice) RemoveAllServices() error                                   { return nil }
func (d *scriptedDevice) SetServices(svcs []*ble.Service) error                      { return nil }
func (d *scriptedDevice) Stop() error                                                { return nil }
func (d *scriptedDevice) Advertise(ctx context.Context, adv ble.Advertisement) error { return nil }
func (d *scriptedDevice) AdvertiseNameAndServices(ctx context.Context, name string, ss ...ble.UUID) error {
	return nil
}
func (d *scriptedDevice) AdvertiseIBeacon(ctx context.Context, u ble.UUID, major, minor uint16, pwr int8) error {
	return nil
}
func (d *scriptedDevice) AdvertiseIBeaconData(ctx context.Context, b []byte) error        { return nil }
func (d *scriptedDevice) AdvertiseMfgData(ctx context.Context, id uint16, b []byte) error { return nil }
func (d *scriptedDevice) AdvertiseServiceData16(ctx context.Context, id uint16, b []byte) error {
	return nil
}
func (d *scriptedDevice) Dial(ctx context.Context, a ble.Addr) (ble.Client, error) { return nil, nil }

func (d *scriptedDevice) Scan(ctx context.Context, allowDup bool, h ble.AdvHandler) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-d.release:
		return d.scanErr
	}
}

// AdapterTestSuite drives the go-ble backed adapter against a scripted
// ble.Device injected through DeviceFactory.
type AdapterTestSuite struct {
	suite.Suite

	originalFactory func() (ble.Device, error)
	device          *scriptedDevice
	backend         *Adapter
}

func (suite *AdapterTestSuite) SetupTest() {
	suite.device = &scriptedDevice{release: make(chan struct{})}

	suite.originalFactory = DeviceFactory
	DeviceFactory = func() (ble.Device, error) {
		return suite.device, nil
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	suite.backend = New(logger)
}

func (suite *AdapterTestSuite) TearDownTest() {
	DeviceFactory = suite.originalFactory
}

func (suite *AdapterTestSuite) TestStopScanCallableFromErrorHandler() {
	// GOAL: Verify a failing scan lets its error handler stop the adapter:
	// the scan goroutine must be drained before OnError is dispatched, so a
	// StopScan issued from inside the handler returns instead of joining the
	// very goroutine it runs on
	//
	// TEST SCENARIO: scan fails asynchronously → OnError calls StopScan →
	// both the reported error and the StopScan return are observed

	suite.device.scanErr = errors.New("controller reset")

	scanErrs := make(chan error, 1)
	stopErrs := make(chan error, 1)
	cb := adapter.Callbacks{
		OnError: func(err error) {
			scanErrs <- err
			stopErrs <- suite.backend.StopScan()
		},
	}
	suite.Require().NoError(suite.backend.StartScan(nil, cb))
	close(suite.device.release)

	select {
	case err := <-scanErrs:
		suite.ErrorContains(err, "controller reset", "backend failure MUST be preserved")
	case <-time.After(2 * time.Second):
		suite.FailNow("OnError MUST fire after the scan fails")
	}

	select {
	case err := <-stopErrs:
		suite.NoError(err, "StopScan issued from OnError MUST return")
	case <-time.After(2 * time.Second):
		suite.FailNow("StopScan issued from OnError MUST NOT block")
	}
}

func (suite *AdapterTestSuite) TestScanFailureResolvesPendingRequest() {
	// GOAL: Verify an asynchronous backend failure travels the whole path:
	// the request controller reacts to OnError, tears the scan down, and the
	// blocked RequestDevice call returns an adapter error
	//
	// TEST SCENARIO: real adapter over a failing ble.Device → RequestDevice
	// → AdapterError carrying the device's failure, within the scan time

	suite.device.scanErr = errors.New("controller reset")
	close(suite.device.release)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	ctrl := request.NewController(suite.backend, logger)
	defer ctrl.Close()

	resCh := make(chan error, 1)
	go func() {
		_, err := ctrl.RequestDevice(context.Background(), &request.Options{
			AcceptAllDevices: true,
			ScanTime:         5 * time.Second,
		})
		resCh <- err
	}()

	select {
	case err := <-resCh:
		var adapterErr *request.AdapterError
		suite.ErrorAs(err, &adapterErr, "failure MUST surface as AdapterError")
		suite.ErrorContains(err, "controller reset")
	case <-time.After(3 * time.Second):
		suite.FailNow("request MUST resolve after the scan failure, not hang")
	}
}

func (suite *AdapterTestSuite) TestStopScanIdleIsNoOp() {
	// GOAL: Verify StopScan without an active scan returns immediately

	suite.NoError(suite.backend.StopScan())
}

func TestAdapterTestSuite(t *testing.T) {
	suite.Run(t, new(AdapterTestSuite))
}
