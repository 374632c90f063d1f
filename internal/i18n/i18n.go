// Package i18n resolves user-facing messages against a per-language
// catalog. Messages are keyed by their English text; a missing entry
// falls back to the key itself.
package i18n

type Lang string

const (
	En Lang = "en"
	Ru Lang = "ru"
)

func T(lang Lang, msg string) string {
	catalog, ok := catalogs[lang]
	if !ok {
		return msg
	}
	if translated, ok := catalog[msg]; ok {
		return translated
	}
	return msg
}

var catalogs = map[Lang]map[string]string{
	Ru: {
		"You are not authorized! Please log in.":                "Вы не авторизованы! Пожалуйста, выполните вход.",
		"You can't edit other user's profile.":                  "У вас нет прав для изменения другого пользователя.",
		"You do not have permission to delete another user.":    "У вас нет прав для удаления другого пользователя.",
		"Task can be deleted only by its author":                "Задачу может удалить только ее автор",
		"Cannot delete status because it is in use.":            "Невозможно удалить статус, потому что он используется.",
		"Cannot delete user. User is associated with tasks.":    "Невозможно удалить пользователя, потому что он используется.",
		"Status has been created successfully.":                 "Статус успешно создан.",
		"Status has been updated successfully.":                 "Статус успешно изменен.",
		"Status has been deleted successfully.":                 "Статус успешно удален.",
		"Label has been created successfully.":                  "Метка успешно создана.",
		"Label has been updated successfully.":                  "Метка успешно изменена.",
		"Label has been deleted successfully.":                  "Метка успешно удалена.",
		"Task has been created successfully.":                   "Задача успешно создана.",
		"Task has been updated successfully.":                   "Задача успешно изменена.",
		"Task deleted successfully":                             "Задача успешно удалена",
		"User has been registered successfully.":                "Пользователь успешно зарегистрирован.",
		"User updated successfully":                             "Пользователь успешно изменен",
		"User has been deleted successfully.":                   "Пользователь успешно удален.",
		"You are logged in":                                     "Вы залогинены",
		"You are logged out":                                    "Вы разлогинены",
		"Invalid username or password.":                         "Пожалуйста, введите правильные имя пользователя и пароль.",
		"Page not found":                                        "Страница не найдена",
		"This field is required.":                               "Обязательное поле.",
		"A record with this name already exists.":               "Запись с таким именем уже существует.",
		"A user with that username already exists.":             "Пользователь с таким именем уже существует.",
		"The two password fields didn't match.":                 "Введенные пароли не совпадают.",
		"Password must contain at least 3 characters.":          "Пароль должен содержать не менее 3 символов.",
		"Username may contain only letters, digits and @/./+/-/_.": "Имя пользователя может содержать только буквы, цифры и символы @/./+/-/_.",
		"Ensure this value has at most 100 characters.":         "Убедитесь, что это значение содержит не более 100 символов.",
		"Ensure this value has at most 150 characters.":         "Убедитесь, что это значение содержит не более 150 символов.",
		"Ensure this value has at most 255 characters.":         "Убедитесь, что это значение содержит не более 255 символов.",
	},
}
