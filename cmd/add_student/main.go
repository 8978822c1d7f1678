package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"quest-fees/app/config"
	"quest-fees/app/ledger"
	"quest-fees/app/models"
)

func main() {
	var reg models.Registration
	var class string
	flag.IntVar(&reg.AdmissionNumber, "admission", 0, "admission number")
	flag.StringVar(&reg.StudentName, "name", "", "student name")
	flag.StringVar(&reg.ParentMobile, "mobile", "", "parent mobile number")
	flag.StringVar(&class, "class", "", "class (Nur, PPI, PPII, I ... X)")
	flag.IntVar(&reg.TotalFee, "fee", 0, "total fee")
	flag.Parse()
	reg.ClassName = models.ClassName(class)

	// Initialize store connection
	ctx := context.Background()
	cfg := config.Load()
	store, closeStore := config.InitStore(ctx, cfg)
	defer closeStore()

	registry := ledger.NewRegistry(store)
	if err := registry.Load(ctx); err != nil {
		fmt.Printf("Error loading fee sheet: %v\n", err)
		os.Exit(1)
	}

	student, err := registry.Register(ctx, reg)
	if err != nil {
		fmt.Printf("Error adding student: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Student added successfully: %d %s (%s), fee %d\n",
		student.AdmissionNumber, student.StudentName, student.ClassName, student.TotalFee)
}
