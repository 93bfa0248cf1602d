package models

// All lists every model, in dependency order, for AutoMigrate in tests
func All() []any {
	return []any{
		&UserModel{},
		&BreedGroupModel{},
		&BreedModel{},
		&DogModel{},
		&AchievementModel{},
		&ShowModel{},
		&ClassDefinitionModel{},
		&ShowClassModel{},
		&SundryItemModel{},
		&OrderModel{},
		&OrderSundryItemModel{},
		&EntryModel{},
		&EntryClassModel{},
		&JuniorHandlerModel{},
		&AuditLogModel{},
		&ResultModel{},
		&PaymentModel{},
		&JudgeContractModel{},
		&ChecklistItemModel{},
	}
}
