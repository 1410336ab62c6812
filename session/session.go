// Package session turns inbound protocol messages into device calls and
// response strings. A Handler is shared by every connection but keeps no
// per-connection or cross-connection state of its own.
package session

import (
	"fmt"
	"log/slog"

	"github.com/thiefmaster/levelremote/comm"
)

// DeviceController applies a level, given as a percentage in 0..100.
type DeviceController interface {
	SetVolumeLevel(percent int) error
	SetBrightnessLevel(percent int) error
}

type Handler struct {
	device DeviceController
	logger *slog.Logger
}

func New(device DeviceController, logger *slog.Logger) *Handler {
	return &Handler{device: device, logger: logger}
}

func (h *Handler) OnOpen(peer string) {
	h.logger.Info("device connected", "peer", peer)
}

// OnMessage returns the one response owed for raw.
func (h *Handler) OnMessage(peer, raw string) string {
	h.logger.Info("received message", "peer", peer, "message", raw)

	var response string
	switch cmd := comm.Parse(raw); cmd.Kind {
	case comm.SetVolume:
		response = h.apply(cmd, "Volume", h.device.SetVolumeLevel)
	case comm.SetBrightness:
		response = h.apply(cmd, "Brightness", h.device.SetBrightnessLevel)
	default:
		response = cmd.Reason
	}

	h.logger.Info("action", "peer", peer, "response", response)
	return response
}

func (h *Handler) OnClose(peer string) {
	h.logger.Info("connection lost", "peer", peer)
}

func (h *Handler) OnError(peer string, err error) {
	h.logger.Error("session error", "peer", peer, "error", err)
}

func (h *Handler) apply(cmd comm.Command, label string, set func(int) error) string {
	percent := cmd.Percentage()
	if err := set(percent); err != nil {
		h.logger.Error("device error", "kind", cmd.Kind, "percent", percent, "error", err)
		return fmt.Sprintf("Error setting %s: %s", cmd.Kind, err.Error())
	}
	return fmt.Sprintf("%s set to %d%%", label, percent)
}
