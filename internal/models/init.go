package models

import "github.com/kds-next/internal/constants"

// defaultStations 首次启动时落库的标准工位
var defaultStations = []Station{
	{Name: "Grill", Category: constants.StationCategoryGrill, Color: "#e74c3c", Position: 1, Active: true},
	{Name: "Fryer", Category: constants.StationCategoryFryer, Color: "#e67e22", Position: 2, Active: true},
	{Name: "Salad", Category: constants.StationCategorySalad, Color: "#2ecc71", Position: 3, Active: true},
	{Name: "Bar", Category: constants.StationCategoryBar, Color: "#3498db", Position: 4, Active: true},
	{Name: "Dessert", Category: constants.StationCategoryDessert, Color: "#9b59b6", Position: 5, Active: true},
	{Name: "Prep", Category: constants.StationCategoryPrep, Color: "#95a5a6", Position: 6, Active: true},
	{Name: "Expo", Category: constants.StationCategoryExpo, Color: "#f1c40f", Position: 7, Active: true},
}

// InitDefaultStations 工位表为空时写入标准工位，已有配置不覆盖
func InitDefaultStations() error {
	var count int64
	if err := DB.Model(&Station{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for i := range defaultStations {
		station := defaultStations[i]
		if err := DB.Create(&station).Error; err != nil {
			return err
		}
	}
	return nil
}
