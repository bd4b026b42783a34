// Command fitcalc runs the fitting engine against a JSON fit file and
// prints the resolved ship's hull attributes as JSON. It deliberately does
// not parse EFT-paste text: the fit/skills inputs are pkg/fitting's own
// JSON shapes, matching the core's interface-only boundary.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Sternrassler/eve-fitting-engine/pkg/evedb/oracle/sqlite"
	"github.com/Sternrassler/eve-fitting-engine/pkg/fitting"
)

func main() {
	var (
		dbPath     = flag.String("db", "sde.sqlite", "Path to SDE SQLite database")
		fitPath    = flag.String("fit", "", "Path to a fit JSON file (fitting.Fit shape)")
		skillsPath = flag.String("skills", "", "Path to a skills JSON file (type_id -> level map)")
		em         = flag.Float64("em", 0.25, "Incoming EM damage weight")
		thermal    = flag.Float64("thermal", 0.25, "Incoming thermal damage weight")
		kinetic    = flag.Float64("kinetic", 0.25, "Incoming kinetic damage weight")
		explosive  = flag.Float64("explosive", 0.25, "Incoming explosive damage weight")
	)
	flag.Parse()

	if *fitPath == "" {
		log.Fatal("missing -fit")
	}

	oracle, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open SDE database: %v", err)
	}
	defer oracle.Close()

	fit, err := readFit(*fitPath)
	if err != nil {
		log.Fatalf("failed to read fit: %v", err)
	}

	skills, err := readSkills(*skillsPath)
	if err != nil {
		log.Fatalf("failed to read skills: %v", err)
	}

	damageProfile := fitting.DamageProfile{EM: *em, Thermal: *thermal, Kinetic: *kinetic, Explosive: *explosive}

	ship, err := fitting.Calculate(oracle, fit, skills, damageProfile)
	if err != nil {
		log.Fatalf("calculation failed: %v", err)
	}

	out := make(map[int]float64, len(ship.Hull.Attributes))
	for id, attr := range ship.Hull.Attributes {
		if attr.Value != nil {
			out[id] = *attr.Value
		}
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode result: %v", err)
	}
	fmt.Println(string(encoded))
}

func readFit(path string) (fitting.Fit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fitting.Fit{}, err
	}
	var fit fitting.Fit
	if err := json.Unmarshal(data, &fit); err != nil {
		return fitting.Fit{}, err
	}
	return fit, nil
}

func readSkills(path string) (fitting.Skills, error) {
	if path == "" {
		return fitting.Skills{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fitting.Skills{}, err
	}
	var levels map[string]int
	if err := json.Unmarshal(data, &levels); err != nil {
		return fitting.Skills{}, err
	}

	var pairs [][2]int
	for idStr, level := range levels {
		var id int
		if _, err := fmt.Sscanf(idStr, "%d", &id); err != nil {
			return fitting.Skills{}, fmt.Errorf("invalid skill type_id %q: %w", idStr, err)
		}
		pairs = append(pairs, [2]int{id, level})
	}
	return fitting.NewSkills(pairs...), nil
}
