// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package sfnt

import "github.com/boxesandglue/fvarinstance/variation"

// parseFvar decodes the fvar table into axis and named-instance records.
// names may be nil; when present, each axis's nameID is resolved against it
// into Axis.Name. Grounded on grisha-textshape/ot/fvar.go's
// ParseFvar/axisInfoAt/namedInstanceAt layout.
func parseFvar(data []byte, names *nameTable) ([]variation.Axis, []variation.NamedInstance, error) {
	if len(data) < 16 {
		return nil, nil, ErrInvalidTable
	}
	major, _ := u16At(data, 0)
	minor, _ := u16At(data, 2)
	if major != 1 || minor != 0 {
		return nil, nil, ErrInvalidFormat
	}

	axisOffset, _ := u16At(data, 4)
	axisCount, _ := u16At(data, 8)
	axisSize, _ := u16At(data, 10)
	instanceCount, _ := u16At(data, 12)
	instanceSize, _ := u16At(data, 14)

	if axisSize != 20 {
		return nil, nil, ErrInvalidFormat
	}
	minInstanceSize := int(axisCount)*4 + 4
	if int(instanceSize) < minInstanceSize {
		return nil, nil, ErrInvalidFormat
	}

	axesEnd := int(axisOffset) + int(axisCount)*20
	instancesEnd := axesEnd + int(instanceCount)*int(instanceSize)
	if instancesEnd > len(data) {
		return nil, nil, ErrInvalidOffset
	}

	axes := make([]variation.Axis, axisCount)
	for i := range axes {
		off := int(axisOffset) + i*20
		tag, _ := u32At(data, off)
		minVal, _ := u32At(data, off+4)
		defVal, _ := u32At(data, off+8)
		maxVal, _ := u32At(data, off+12)
		flags, _ := u16At(data, off+16)
		nameID, _ := u16At(data, off+18)
		axes[i] = variation.Axis{
			Tag:     variation.Tag(tag),
			Min:     fixed1616ToFloat(minVal),
			Default: fixed1616ToFloat(defVal),
			Max:     fixed1616ToFloat(maxVal),
			Flags:   variation.AxisFlags(flags),
			Name:    names.get(nameID),
		}
	}

	instances := make([]variation.NamedInstance, instanceCount)
	for i := range instances {
		off := axesEnd + i*int(instanceSize)
		subfamilyNameID, _ := u16At(data, off)
		coords := make(variation.DesignPoint, axisCount)
		for a := 0; a < int(axisCount); a++ {
			v, _ := u32At(data, off+4+a*4)
			coords[axes[a].Tag] = fixed1616ToFloat(v)
		}
		inst := variation.NamedInstance{Index: i, SubfamilyNameID: subfamilyNameID, Coords: coords}
		if int(instanceSize) >= minInstanceSize+2 {
			psNameOff := off + 4 + int(axisCount)*4
			if psNameOff+2 <= len(data) {
				psid, _ := u16At(data, psNameOff)
				inst.PostScriptNameID = psid
			}
		}
		instances[i] = inst
	}

	return axes, instances, nil
}
