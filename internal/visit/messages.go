// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package visit

import (
	"errors"

	"github.com/relabs-tech/minevisit/internal/gps"
)

// User-facing texts of the visit form.
const (
	msgUnsupported    = "مرورگر شما از این قابلیت پشتیبانی نمی‌کند."
	msgLocationPrefix = "خطا در دریافت مختصات: "
	msgCameraPrefix   = "خطا در دسترسی به دوربین: "
)

func locationMessage(err error) string {
	if errors.Is(err, gps.ErrUnsupported) {
		return msgUnsupported
	}
	return msgLocationPrefix + err.Error()
}

func cameraMessage(err error) string {
	return msgCameraPrefix + err.Error()
}
