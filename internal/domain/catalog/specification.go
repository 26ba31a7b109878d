// Package catalog modela la ficha técnica de cada categoría de producto CCTV como una
// unión etiquetada: una estructura tipada por categoría, cada una con su propio validador.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/cctv-stock-api/internal/domain"
)

// Category categoría del catálogo; etiqueta de la unión.
type Category string

const (
	CategoryCamera      Category = "camera"
	CategoryDVR         Category = "dvr"
	CategoryNVR         Category = "nvr"
	CategoryCable       Category = "cable"
	CategoryPowerSupply Category = "power_supply"
	CategoryHardDisk    Category = "hard_disk"
	CategoryAccessory   Category = "accessory"
)

// Categories lista cerrada de categorías soportadas.
var Categories = []Category{
	CategoryCamera, CategoryDVR, CategoryNVR, CategoryCable,
	CategoryPowerSupply, CategoryHardDisk, CategoryAccessory,
}

// ParseCategory normaliza y valida una categoría.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: categoría %q desconocida", domain.ErrInvalidInput, s)
}

// Specification ficha técnica de un producto. Solo este paquete la implementa.
type Specification interface {
	Category() Category
	Validate() error
	// withDefaults devuelve una copia con los campos vacíos completados desde d (misma categoría).
	withDefaults(d Specification) Specification
}

// Tecnologías de cámara / grabador.
const (
	TechHDAnalog = "hd_analog"
	TechIP       = "ip"
)

// CameraSpec cámara analógica HD o IP.
type CameraSpec struct {
	Technology  string  `json:"technology"`             // hd_analog | ip
	Resolution  string  `json:"resolution"`             // 2MP, 4MP, 5MP, 8MP
	Form        string  `json:"form"`                   // dome | bullet | turret | ptz
	LensMM      float64 `json:"lens_mm"`                // 2.8, 3.6, 6 ...
	IRRangeM    int     `json:"ir_range_m"`
	NightVision string  `json:"night_vision,omitempty"` // ir | color | dual_light
	Audio       bool    `json:"audio"`
	IPRating    string  `json:"ip_rating,omitempty"` // IP66, IP67
	PoE         bool    `json:"poe"`
}

// DVRSpec grabador para cámaras HD analógicas.
type DVRSpec struct {
	Channels      int    `json:"channels"`
	MaxResolution string `json:"max_resolution"`
	HDDSlots      int    `json:"hdd_slots"`
	MaxHDDTB      int    `json:"max_hdd_tb"`
	AudioInputs   int    `json:"audio_inputs"`
	Compression   string `json:"compression"` // H.264, H.265, H.265+
}

// NVRSpec grabador para cámaras IP.
type NVRSpec struct {
	Channels      int    `json:"channels"`
	PoEPorts      int    `json:"poe_ports"`
	MaxResolution string `json:"max_resolution"`
	HDDSlots      int    `json:"hdd_slots"`
	MaxHDDTB      int    `json:"max_hdd_tb"`
	BandwidthMbps int    `json:"bandwidth_mbps"`
	Compression   string `json:"compression"`
}

// CableSpec cable coaxial, UTP o de alimentación.
type CableSpec struct {
	CableType string `json:"cable_type"` // coaxial | cat6 | cat5e | power
	LengthM   int    `json:"length_m"`
	Conductor string `json:"conductor"` // copper | cca
	Shielded  bool   `json:"shielded"`
	Outdoor   bool   `json:"outdoor"`
}

// PowerSupplySpec fuente centralizada o adaptador.
type PowerSupplySpec struct {
	Kind        string  `json:"kind"` // smps | adapter
	OutputVolts float64 `json:"output_volts"`
	OutputAmps  float64 `json:"output_amps"`
	Channels    int     `json:"channels"`
}

// HardDiskSpec disco de videovigilancia.
type HardDiskSpec struct {
	CapacityTB int    `json:"capacity_tb"`
	Series     string `json:"series"` // surveillance | desktop
	RPM        int    `json:"rpm"`
	Interface  string `json:"interface"` // SATA
}

// AccessorySpec conectores, cajas, soportes, balunes.
type AccessorySpec struct {
	Kind           string   `json:"kind"`
	PackSize       int      `json:"pack_size"`
	CompatibleWith []string `json:"compatible_with,omitempty"`
}

func (CameraSpec) Category() Category { return CategoryCamera }
func (DVRSpec) Category() Category { return CategoryDVR }
func (NVRSpec) Category() Category { return CategoryNVR }
func (CableSpec) Category() Category { return CategoryCable }
func (PowerSupplySpec) Category() Category { return CategoryPowerSupply }
func (HardDiskSpec) Category() Category { return CategoryHardDisk }
func (AccessorySpec) Category() Category { return CategoryAccessory }

// validChannels canales estándar de grabadores.
var validChannels = map[int]bool{4: true, 8: true, 16: true, 32: true, 64: true}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Validate reglas de CameraSpec.
func (s CameraSpec) Validate() error {
	if s.Technology != TechHDAnalog && s.Technology != TechIP {
		return invalid("camera.technology debe ser hd_analog o ip")
	}
	if s.Resolution == "" {
		return invalid("camera.resolution es obligatorio")
	}
	switch s.Form {
	case "dome", "bullet", "turret", "ptz":
	default:
		return invalid("camera.form %q no soportado", s.Form)
	}
	if s.LensMM <= 0 {
		return invalid("camera.lens_mm debe ser positivo")
	}
	if s.IRRangeM < 0 {
		return invalid("camera.ir_range_m no puede ser negativo")
	}
	if s.PoE && s.Technology != TechIP {
		return invalid("camera.poe solo aplica a cámaras IP")
	}
	return nil
}

// Validate reglas de DVRSpec.
func (s DVRSpec) Validate() error {
	if !validChannels[s.Channels] {
		return invalid("dvr.channels %d no es estándar (4, 8, 16, 32, 64)", s.Channels)
	}
	if s.HDDSlots < 1 {
		return invalid("dvr.hdd_slots debe ser al menos 1")
	}
	if s.MaxHDDTB < 1 {
		return invalid("dvr.max_hdd_tb debe ser positivo")
	}
	if s.AudioInputs < 0 || s.AudioInputs > s.Channels {
		return invalid("dvr.audio_inputs fuera de rango")
	}
	return nil
}

// Validate reglas de NVRSpec.
func (s NVRSpec) Validate() error {
	if !validChannels[s.Channels] {
		return invalid("nvr.channels %d no es estándar (4, 8, 16, 32, 64)", s.Channels)
	}
	if s.PoEPorts < 0 || s.PoEPorts > s.Channels {
		return invalid("nvr.poe_ports no puede superar los canales")
	}
	if s.HDDSlots < 1 {
		return invalid("nvr.hdd_slots debe ser al menos 1")
	}
	if s.BandwidthMbps <= 0 {
		return invalid("nvr.bandwidth_mbps debe ser positivo")
	}
	return nil
}

// Validate reglas de CableSpec.
func (s CableSpec) Validate() error {
	switch s.CableType {
	case "coaxial", "cat6", "cat5e", "power":
	default:
		return invalid("cable.cable_type %q no soportado", s.CableType)
	}
	if s.LengthM <= 0 {
		return invalid("cable.length_m debe ser positivo")
	}
	if s.Conductor != "copper" && s.Conductor != "cca" {
		return invalid("cable.conductor debe ser copper o cca")
	}
	return nil
}

// Validate reglas de PowerSupplySpec.
func (s PowerSupplySpec) Validate() error {
	if s.Kind != "smps" && s.Kind != "adapter" {
		return invalid("power_supply.kind debe ser smps o adapter")
	}
	if s.OutputVolts <= 0 || s.OutputAmps <= 0 {
		return invalid("power_supply requiere voltaje y amperaje positivos")
	}
	if s.Channels < 1 {
		return invalid("power_supply.channels debe ser al menos 1")
	}
	return nil
}

// Validate reglas de HardDiskSpec.
func (s HardDiskSpec) Validate() error {
	if s.CapacityTB < 1 {
		return invalid("hard_disk.capacity_tb debe ser al menos 1")
	}
	if s.RPM != 0 && s.RPM < 5400 {
		return invalid("hard_disk.rpm inválido")
	}
	if s.Interface == "" {
		return invalid("hard_disk.interface es obligatorio")
	}
	return nil
}

// Validate reglas de AccessorySpec.
func (s AccessorySpec) Validate() error {
	if strings.TrimSpace(s.Kind) == "" {
		return invalid("accessory.kind es obligatorio")
	}
	if s.PackSize < 0 {
		return invalid("accessory.pack_size no puede ser negativo")
	}
	return nil
}

// Decode interpreta la ficha cruda según la categoría. Ficha vacía → estructura vacía de la categoría.
func Decode(category Category, raw json.RawMessage) (Specification, error) {
	var spec Specification
	switch category {
	case CategoryCamera:
		spec = &CameraSpec{}
	case CategoryDVR:
		spec = &DVRSpec{}
	case CategoryNVR:
		spec = &NVRSpec{}
	case CategoryCable:
		spec = &CableSpec{}
	case CategoryPowerSupply:
		spec = &PowerSupplySpec{}
	case CategoryHardDisk:
		spec = &HardDiskSpec{}
	case CategoryAccessory:
		spec = &AccessorySpec{}
	default:
		return nil, fmt.Errorf("%w: categoría %q desconocida", domain.ErrInvalidInput, category)
	}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, spec); err != nil {
			return nil, fmt.Errorf("%w: ficha técnica de %s: %v", domain.ErrInvalidInput, category, err)
		}
	}
	return deref(spec), nil
}

// Encode serializa la ficha para persistirla junto al producto.
func Encode(spec Specification) (json.RawMessage, error) {
	b, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("serializar ficha técnica: %w", err)
	}
	return b, nil
}

// deref normaliza punteros a valores para que los type switch trabajen con un solo caso por variante.
func deref(spec Specification) Specification {
	switch s := spec.(type) {
	case *CameraSpec:
		return *s
	case *DVRSpec:
		return *s
	case *NVRSpec:
		return *s
	case *CableSpec:
		return *s
	case *PowerSupplySpec:
		return *s
	case *HardDiskSpec:
		return *s
	case *AccessorySpec:
		return *s
	}
	return spec
}
