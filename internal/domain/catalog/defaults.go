package catalog

import (
	"fmt"

	"github.com/jhoicas/cctv-stock-api/internal/domain"
)

// DefaultsContext datos del kit que condicionan los valores sugeridos.
type DefaultsContext struct {
	Technology string // hd_analog | ip; vacío = hd_analog
	Channels   int    // canales del grabador del kit; 0 = 4
}

func (c DefaultsContext) technology() string {
	if c.Technology == TechIP {
		return TechIP
	}
	return TechHDAnalog
}

func (c DefaultsContext) channels() int {
	if validChannels[c.Channels] {
		return c.Channels
	}
	return 4
}

// DefaultsFor devuelve la ficha sugerida ("llenado rápido") para una categoría. Función pura.
func DefaultsFor(category Category, ctx DefaultsContext) (Specification, error) {
	ch := ctx.channels()
	switch category {
	case CategoryCamera:
		s := CameraSpec{
			Technology:  ctx.technology(),
			Resolution:  "2MP",
			Form:        "dome",
			LensMM:      3.6,
			IRRangeM:    20,
			NightVision: "ir",
		}
		if s.Technology == TechIP {
			s.Resolution = "4MP"
			s.LensMM = 2.8
			s.IRRangeM = 30
			s.PoE = true
		}
		return s, nil
	case CategoryDVR:
		slots := hddSlotsFor(ch)
		return DVRSpec{
			Channels:      ch,
			MaxResolution: "5MP",
			HDDSlots:      slots,
			MaxHDDTB:      10 * slots,
			AudioInputs:   1,
			Compression:   "H.265+",
		}, nil
	case CategoryNVR:
		slots := hddSlotsFor(ch)
		return NVRSpec{
			Channels:      ch,
			PoEPorts:      ch,
			MaxResolution: "8MP",
			HDDSlots:      slots,
			MaxHDDTB:      10 * slots,
			BandwidthMbps: ch * 10,
			Compression:   "H.265+",
		}, nil
	case CategoryCable:
		if ctx.technology() == TechIP {
			return CableSpec{CableType: "cat6", LengthM: 305, Conductor: "copper", Outdoor: true}, nil
		}
		return CableSpec{CableType: "coaxial", LengthM: 90, Conductor: "copper", Shielded: true}, nil
	case CategoryPowerSupply:
		// 1 A por cámara a 12 V para fuentes centralizadas.
		return PowerSupplySpec{Kind: "smps", OutputVolts: 12, OutputAmps: float64(ch), Channels: ch}, nil
	case CategoryHardDisk:
		return HardDiskSpec{CapacityTB: capacityFor(ch), Series: "surveillance", RPM: 5400, Interface: "SATA"}, nil
	case CategoryAccessory:
		if ctx.technology() == TechIP {
			return AccessorySpec{Kind: "rj45_connector", PackSize: 100}, nil
		}
		return AccessorySpec{Kind: "bnc_connector", PackSize: 2 * ch}, nil
	}
	return nil, fmt.Errorf("%w: categoría %q desconocida", domain.ErrInvalidInput, category)
}

func hddSlotsFor(channels int) int {
	if channels >= 16 {
		return 2
	}
	return 1
}

func capacityFor(channels int) int {
	switch {
	case channels <= 4:
		return 1
	case channels <= 8:
		return 2
	case channels <= 16:
		return 4
	default:
		return 8
	}
}

// ApplyDefaults completa los campos vacíos de spec con los de defaults. Ambas deben ser de la misma categoría.
// Es la única rutina de mezcla: todas las categorías pasan por aquí.
func ApplyDefaults(spec, defaults Specification) (Specification, error) {
	if spec == nil {
		return defaults, nil
	}
	if defaults == nil {
		return spec, nil
	}
	if spec.Category() != defaults.Category() {
		return nil, fmt.Errorf("%w: no se pueden mezclar %s con valores de %s",
			domain.ErrInvalidInput, spec.Category(), defaults.Category())
	}
	return deref(spec).withDefaults(deref(defaults)), nil
}

func orString(v, d string) string {
	if v == "" {
		return d
	}
	return v
}

func orInt(v, d int) int {
	if v == 0 {
		return d
	}
	return v
}

func orFloat(v, d float64) float64 {
	if v == 0 {
		return d
	}
	return v
}

func (s CameraSpec) withDefaults(d Specification) Specification {
	def := d.(CameraSpec)
	s.Technology = orString(s.Technology, def.Technology)
	s.Resolution = orString(s.Resolution, def.Resolution)
	s.Form = orString(s.Form, def.Form)
	s.LensMM = orFloat(s.LensMM, def.LensMM)
	s.IRRangeM = orInt(s.IRRangeM, def.IRRangeM)
	s.NightVision = orString(s.NightVision, def.NightVision)
	s.IPRating = orString(s.IPRating, def.IPRating)
	if s.Technology == TechIP && def.Technology == TechIP {
		s.PoE = s.PoE || def.PoE
	}
	return s
}

func (s DVRSpec) withDefaults(d Specification) Specification {
	def := d.(DVRSpec)
	s.Channels = orInt(s.Channels, def.Channels)
	s.MaxResolution = orString(s.MaxResolution, def.MaxResolution)
	s.HDDSlots = orInt(s.HDDSlots, def.HDDSlots)
	s.MaxHDDTB = orInt(s.MaxHDDTB, def.MaxHDDTB)
	s.AudioInputs = orInt(s.AudioInputs, def.AudioInputs)
	s.Compression = orString(s.Compression, def.Compression)
	return s
}

func (s NVRSpec) withDefaults(d Specification) Specification {
	def := d.(NVRSpec)
	s.Channels = orInt(s.Channels, def.Channels)
	s.PoEPorts = orInt(s.PoEPorts, def.PoEPorts)
	if s.PoEPorts > s.Channels {
		s.PoEPorts = s.Channels
	}
	s.MaxResolution = orString(s.MaxResolution, def.MaxResolution)
	s.HDDSlots = orInt(s.HDDSlots, def.HDDSlots)
	s.MaxHDDTB = orInt(s.MaxHDDTB, def.MaxHDDTB)
	s.BandwidthMbps = orInt(s.BandwidthMbps, def.BandwidthMbps)
	s.Compression = orString(s.Compression, def.Compression)
	return s
}

func (s CableSpec) withDefaults(d Specification) Specification {
	def := d.(CableSpec)
	if s.CableType == "" {
		s.CableType = def.CableType
		s.Shielded = def.Shielded
		s.Outdoor = def.Outdoor
	}
	s.LengthM = orInt(s.LengthM, def.LengthM)
	s.Conductor = orString(s.Conductor, def.Conductor)
	return s
}

func (s PowerSupplySpec) withDefaults(d Specification) Specification {
	def := d.(PowerSupplySpec)
	s.Kind = orString(s.Kind, def.Kind)
	s.OutputVolts = orFloat(s.OutputVolts, def.OutputVolts)
	s.OutputAmps = orFloat(s.OutputAmps, def.OutputAmps)
	s.Channels = orInt(s.Channels, def.Channels)
	return s
}

func (s HardDiskSpec) withDefaults(d Specification) Specification {
	def := d.(HardDiskSpec)
	s.CapacityTB = orInt(s.CapacityTB, def.CapacityTB)
	s.Series = orString(s.Series, def.Series)
	s.RPM = orInt(s.RPM, def.RPM)
	s.Interface = orString(s.Interface, def.Interface)
	return s
}

func (s AccessorySpec) withDefaults(d Specification) Specification {
	def := d.(AccessorySpec)
	s.Kind = orString(s.Kind, def.Kind)
	s.PackSize = orInt(s.PackSize, def.PackSize)
	if len(s.CompatibleWith) == 0 {
		s.CompatibleWith = def.CompatibleWith
	}
	return s
}
