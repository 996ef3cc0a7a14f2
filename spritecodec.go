package spritecodec

import (
	"github.com/miu2d/spritecodec/internal/convert"
	"github.com/miu2d/spritecodec/internal/verify"
)

// ASFToMSF converts a legacy canvas-composited ASF sprite into an MSF blob.
func ASFToMSF(data []byte) ([]byte, error) {
	return convert.ASFToMSF(data)
}

// MPCToMSF converts a legacy per-frame MPC sprite into an MSF blob.
func MPCToMSF(data []byte) ([]byte, error) {
	return convert.MPCToMSF(data)
}

// MAPToMMF translates a legacy MAP tile map into an MMF blob, binding any
// trap table found in trapsINI for mapStem. trapsINI may be nil.
func MAPToMMF(data []byte, mapStem string, trapsINI []byte) ([]byte, error) {
	return convert.MAPToMMF(data, mapStem, trapsINI)
}

// Result reports a round-trip verification outcome.
type Result = verify.Result

// VerifyASF decodes srcData as ASF and msfData as MSF and compares every
// frame's rendered pixels.
func VerifyASF(srcData, msfData []byte) (*Result, error) {
	return verify.ASF(srcData, msfData)
}

// VerifyMPC decodes srcData as MPC and msfData as MSF and compares every
// frame's rendered pixels.
func VerifyMPC(srcData, msfData []byte) (*Result, error) {
	return verify.MPC(srcData, msfData)
}
