package pack_test

import (
	"testing"

	"github.com/dmtypes/pack"
)

type planet struct {
	Pos               int
	Name              string
	MassEarths        float64
	NotableSatellites []string
}

type solarSystem struct {
	Galaxy  string
	Age     int
	Stars   []string
	Planets []planet
	Meta    map[string]string
}

var system = solarSystem{
	Galaxy: "Milky Way",
	Age:    4568,
	Stars:  []string{"Sun"},
	Planets: []planet{
		{1, "Mercury", 0.055, nil},
		{2, "Venus", 0.815, nil},
		{3, "Earth", 1.0, []string{"Moon"}},
		{4, "Mars", 0.107, []string{"Phobos", "Deimos"}},
		{5, "Jupiter", 317.83, []string{"Io", "Europa", "Ganymede", "Callisto"}},
		{6, "Saturn", 95.16, []string{"Titan", "Rhea", "Enceladus"}},
		{7, "Uranus", 14.536, []string{"Oberon", "Titania", "Miranda", "Ariel", "Umbriel"}},
		{8, "Neptune", 17.15, []string{"Triton"}},
	},
	Meta: map[string]string{"title": "Interesting facts about Solar system"},
}

func BenchmarkSerialize(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, err := pack.Serialize(system)
		if err != nil {
			b.FailNow()
		}
	}
}

func BenchmarkSerializeTo(b *testing.B) {
	n, err := pack.NeededSize(system)
	if err != nil {
		b.Fatal(err)
	}
	buf := make([]byte, n)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := pack.SerializeTo(buf, system)
		if err != nil {
			b.FailNow()
		}
	}
}

func BenchmarkSerializeDeterministic(b *testing.B) {
	enc := pack.Encoder{Deterministic: true}

	for i := 0; i < b.N; i++ {
		_, err := enc.Serialize(system)
		if err != nil {
			b.FailNow()
		}
	}
}

func BenchmarkDeserialize(b *testing.B) {
	buf, err := pack.Serialize(system)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var s solarSystem
		if err := pack.DeserializeTo(buf, &s); err != nil {
			b.FailNow()
		}
	}
}

func BenchmarkGetField(b *testing.B) {
	buf, err := pack.Serialize(system)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pack.GetField[solarSystem, map[string]string](buf, 4); err != nil {
			b.FailNow()
		}
	}
}
