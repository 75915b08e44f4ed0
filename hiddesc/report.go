// USB HID class descriptor support
// https://github.com/f-secure-foundry/hidremap
//
// Copyright (c) F-Secure Corporation
// https://foundry.f-secure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package hiddesc

// Report ids used by the composite keyboard/mouse report descriptor
// returned by CombinedReportDescriptor.
const (
	KeyboardReportID = 1
	MouseReportID    = 2
)

// KeyboardReportDescriptor returns a boot-compatible keyboard report
// descriptor: a modifier byte, a reserved byte, a 5-bit LED output report
// and six key-code slots, all under reportID.
func KeyboardReportDescriptor(reportID uint8) []byte {
	return []byte{
		0x05, 0x01, //   USAGE_PAGE (Generic Desktop)
		0x09, 0x06, //   USAGE (Keyboard)
		0xa1, 0x01, //   COLLECTION (Application)
		0x85, reportID, //   REPORT_ID
		0x05, 0x07, //     USAGE_PAGE (Keyboard/Keypad)
		0x19, 0xe0, //     USAGE_MINIMUM (Keyboard LeftControl)
		0x29, 0xe7, //     USAGE_MAXIMUM (Keyboard Right GUI)
		0x15, 0x00, //     LOGICAL_MINIMUM (0)
		0x25, 0x01, //     LOGICAL_MAXIMUM (1)
		0x75, 0x01, //     REPORT_SIZE (1)
		0x95, 0x08, //     REPORT_COUNT (8)
		0x81, 0x02, //     INPUT (Data,Var,Abs) -- modifier byte
		0x95, 0x01, //     REPORT_COUNT (1)
		0x75, 0x08, //     REPORT_SIZE (8)
		0x81, 0x03, //     INPUT (Cnst,Var,Abs) -- reserved byte
		0x95, 0x05, //     REPORT_COUNT (5)
		0x75, 0x01, //     REPORT_SIZE (1)
		0x05, 0x08, //     USAGE_PAGE (LEDs)
		0x19, 0x01, //     USAGE_MINIMUM (Num Lock)
		0x29, 0x05, //     USAGE_MAXIMUM (Kana)
		0x91, 0x02, //     OUTPUT (Data,Var,Abs) -- LED state
		0x95, 0x01, //     REPORT_COUNT (1)
		0x75, 0x03, //     REPORT_SIZE (3)
		0x91, 0x03, //     OUTPUT (Cnst,Var,Abs) -- LED padding
		0x95, 0x06, //     REPORT_COUNT (6)
		0x75, 0x08, //     REPORT_SIZE (8)
		0x15, 0x00, //     LOGICAL_MINIMUM (0)
		0x25, 0x65, //     LOGICAL_MAXIMUM (101)
		0x05, 0x07, //     USAGE_PAGE (Keyboard/Keypad)
		0x19, 0x00, //     USAGE_MINIMUM (Reserved)
		0x29, 0x65, //     USAGE_MAXIMUM (Keyboard Application)
		0x81, 0x00, //     INPUT (Data,Ary,Abs) -- key array
		0xc0, //   END_COLLECTION
	}
}

// MouseReportDescriptor returns a relative mouse report descriptor with
// five buttons, relative X/Y and a relative wheel, all under reportID.
// When withResolutionMultiplier is set the wheel field is wrapped in a
// Logical collection carrying a Feature report for the HID resolution
// multiplier (§6), as negotiated into remap.Config.ResolutionMultiplier
// by the control plane.
func MouseReportDescriptor(reportID uint8, withResolutionMultiplier bool) []byte {
	desc := []byte{
		0x05, 0x01, //   USAGE_PAGE (Generic Desktop)
		0x09, 0x02, //   USAGE (Mouse)
		0xa1, 0x01, //   COLLECTION (Application)
		0x85, reportID, //   REPORT_ID
		0x09, 0x01, //     USAGE (Pointer)
		0xa1, 0x00, //     COLLECTION (Physical)
		0x05, 0x09, //       USAGE_PAGE (Button)
		0x19, 0x01, //       USAGE_MINIMUM (Button 1)
		0x29, 0x05, //       USAGE_MAXIMUM (Button 5)
		0x15, 0x00, //       LOGICAL_MINIMUM (0)
		0x25, 0x01, //       LOGICAL_MAXIMUM (1)
		0x95, 0x05, //       REPORT_COUNT (5)
		0x75, 0x01, //       REPORT_SIZE (1)
		0x81, 0x02, //       INPUT (Data,Var,Abs) -- buttons
		0x95, 0x01, //       REPORT_COUNT (1)
		0x75, 0x03, //       REPORT_SIZE (3)
		0x81, 0x03, //       INPUT (Cnst,Var,Abs) -- button padding
		0x05, 0x01, //       USAGE_PAGE (Generic Desktop)
		0x09, 0x30, //       USAGE (X)
		0x09, 0x31, //       USAGE (Y)
		0x15, 0x81, //       LOGICAL_MINIMUM (-127)
		0x25, 0x7f, //       LOGICAL_MAXIMUM (127)
		0x75, 0x08, //       REPORT_SIZE (8)
		0x95, 0x02, //       REPORT_COUNT (2)
		0x81, 0x06, //       INPUT (Data,Var,Rel) -- X, Y
	}

	if withResolutionMultiplier {
		desc = append(desc, resolutionMultiplierWheel()...)
	} else {
		desc = append(desc, plainWheel()...)
	}

	desc = append(desc,
		0xc0, //     END_COLLECTION (Physical)
		0xc0, //   END_COLLECTION (Application)
	)

	return desc
}

func plainWheel() []byte {
	return []byte{
		0x09, 0x38, //       USAGE (Wheel)
		0x15, 0x81, //       LOGICAL_MINIMUM (-127)
		0x25, 0x7f, //       LOGICAL_MAXIMUM (127)
		0x75, 0x08, //       REPORT_SIZE (8)
		0x95, 0x01, //       REPORT_COUNT (1)
		0x81, 0x06, //       INPUT (Data,Var,Rel) -- wheel
	}
}

// resolutionMultiplierWheel wraps the wheel field in a Logical
// collection that also exposes a Feature report for the resolution
// multiplier, following the layout Microsoft documents for high
// resolution wheel scrolling.
func resolutionMultiplierWheel() []byte {
	return []byte{
		0xa1, 0x02, //       COLLECTION (Logical)
		0x09, 0x48, //         USAGE (Resolution Multiplier)
		0x15, 0x00, //         LOGICAL_MINIMUM (0)
		0x25, 0x01, //         LOGICAL_MAXIMUM (1)
		0x35, 0x01, //         PHYSICAL_MINIMUM (1)
		0x45, 0x78, //         PHYSICAL_MAXIMUM (120)
		0x75, 0x02, //         REPORT_SIZE (2)
		0x95, 0x01, //         REPORT_COUNT (1)
		0xb1, 0x02, //         FEATURE (Data,Var,Abs) -- multiplier
		0x35, 0x00, //         PHYSICAL_MINIMUM (0) -- reset
		0x45, 0x00, //         PHYSICAL_MAXIMUM (0) -- reset
		0x75, 0x06, //         REPORT_SIZE (6)
		0xb1, 0x03, //         FEATURE (Cnst,Var,Abs) -- padding
		0x09, 0x38, //         USAGE (Wheel)
		0x15, 0x81, //         LOGICAL_MINIMUM (-127)
		0x25, 0x7f, //         LOGICAL_MAXIMUM (127)
		0x75, 0x08, //         REPORT_SIZE (8)
		0x95, 0x01, //         REPORT_COUNT (1)
		0x81, 0x06, //         INPUT (Data,Var,Rel) -- wheel
		0xc0, //       END_COLLECTION (Logical)
	}
}

// CombinedReportDescriptor returns the full composite report descriptor
// exposed by the device: a boot keyboard and a relative mouse, each
// under its own report id so both can share a single IN endpoint.
func CombinedReportDescriptor(withResolutionMultiplier bool) []byte {
	desc := KeyboardReportDescriptor(KeyboardReportID)
	desc = append(desc, MouseReportDescriptor(MouseReportID, withResolutionMultiplier)...)
	return desc
}
