package tui

// UI Text Constants
const (
	TextLoading      = "Carregando notícias..."
	TextEmpty        = "Nenhuma notícia disponível no momento."
	TextRefreshing   = "Atualizando..."
	TextRefreshAsked = "Atualização solicitada"
	TextPaused       = "pausado"
	TextNoImage      = "sem imagem"
	TextNoQR         = "QR indisponível"
	TextRefreshError = "Falha na última atualização"

	TextFooter = "←/h anterior | →/l/espaço próxima | o/enter abrir | p pausar | r atualizar | q sair"
)
