// Package command enumerates DALI standard and special command opcodes.
package command

// Code is a DALI standard command opcode, sent with the standard-command
// discriminator bit set in an addressed frame.
type Code uint8

const (
	Off                       Code = 0x00
	Up                        Code = 0x01
	Down                      Code = 0x02
	StepUp                    Code = 0x03
	StepDown                  Code = 0x04
	RecallMaxLevel            Code = 0x05
	RecallMinLevel            Code = 0x06
	StepDownAndOff            Code = 0x07
	OnAndStepUp               Code = 0x08
	EnableDAPCSequence        Code = 0x09
	GoToLastActiveLevel       Code = 0x0a
	ContinuousUp              Code = 0x0b
	ContinuousDown            Code = 0x0c
	GoToScene                 Code = 0x10
	Reset                     Code = 0x20
	StoreActualLevelInDTR0    Code = 0x21
	SavePersistentVariables   Code = 0x22
	SetOperatingMode          Code = 0x23
	ResetMemoryBank           Code = 0x24
	IdentifyDevice            Code = 0x25
	SetMaxLevel               Code = 0x2a
	SetMinLevel               Code = 0x2b
	SetSystemFailureLevel     Code = 0x2c
	SetPowerOnLevel           Code = 0x2d
	SetFadeTime               Code = 0x2e
	SetFadeRate               Code = 0x2f
	SetExtendedFadeTime       Code = 0x30
	SetScene                  Code = 0x40
	RemoveFromScene           Code = 0x50
	AddToGroup                Code = 0x60
	RemoveFromGroup           Code = 0x70
	SetShortAddress           Code = 0x80
	EnableWriteMemory         Code = 0x81
	QueryStatus               Code = 0x90
	QueryControlGearPresent   Code = 0x91
	QueryLampFailure          Code = 0x92
	QueryLampPowerOn          Code = 0x93
	QueryLimitError           Code = 0x94
	QueryResetState           Code = 0x95
	QueryMissingShortAddress  Code = 0x96
	QueryVersionNumber        Code = 0x97
	QueryContentDTR0          Code = 0x98
	QueryDeviceType           Code = 0x99
	QueryPhysicalMinimum      Code = 0x9a
	QueryPowerFailure         Code = 0x9b
	QueryContentDTR1          Code = 0x9c
	QueryContentDTR2          Code = 0x9d
	QueryOperatingMode        Code = 0x9e
	QueryLightSourceType      Code = 0x9f
	QueryActualLevel          Code = 0xa0
	QueryMaxLevel             Code = 0xa1
	QueryMinLevel             Code = 0xa2
	QueryPowerOnLevel         Code = 0xa3
	QuerySystemFailureLevel   Code = 0xa4
	QueryFadeTimeFadeRate     Code = 0xa5
	QueryManufacturerSpecific Code = 0xa6
	QueryNextDeviceType       Code = 0xa7
	QueryExtendedFadeTime     Code = 0xa8
	QueryControlGearFailure  Code = 0xaa
	QuerySceneLevel           Code = 0xb0
	QueryGroupsZeroToSeven    Code = 0xc0
	QueryGroupsEightToFifteen Code = 0xc1
	QueryRandomAddressH       Code = 0xc2
	QueryRandomAddressM       Code = 0xc3
	QueryRandomAddressL       Code = 0xc4
	ReadMemoryLocation        Code = 0xc5
)

// HasSideEffects reports whether c changes device state (true for codes at or
// below Reset) versus being a pure query.
func (c Code) HasSideEffects() bool {
	return c <= Reset
}

// AddToGroupCode returns the AddToGroup opcode for the given group (0..15).
func AddToGroupCode(group uint8) Code {
	return AddToGroup | Code(group&0x0F)
}

// RemoveFromGroupCode returns the RemoveFromGroup opcode for the given group.
func RemoveFromGroupCode(group uint8) Code {
	return RemoveFromGroup | Code(group&0x0F)
}

// SpecialCode is a DALI special-command opcode, occupying the opcode space
// where the address byte's high bit is set and at least one of bits 5-6 is
// also set.
type SpecialCode uint8

const (
	Terminate            SpecialCode = 0xa1
	Initialise           SpecialCode = 0xA5
	Randomise            SpecialCode = 0xa7
	Compare              SpecialCode = 0xa9
	Withdraw             SpecialCode = 0xab
	Ping                 SpecialCode = 0xad
	SearchAddrH          SpecialCode = 0xb1
	SearchAddrM          SpecialCode = 0xb3
	SearchAddrL          SpecialCode = 0xb5
	ProgramShortAddress  SpecialCode = 0xb7
	VerifyShortAddress   SpecialCode = 0xb9
	QueryShortAddress    SpecialCode = 0xbb
	EnableDeviceType     SpecialCode = 0xc1
	SetDTR0              SpecialCode = 0xa3
	SetDTR1              SpecialCode = 0xc3
	SetDTR2              SpecialCode = 0xc5
	WriteMemoryLocation  SpecialCode = 0xc7
	WriteMemoryLocNoReply SpecialCode = 0xc9
)
